package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var cmdLayout = &cobra.Command{
	Use:   "layout",
	Short: "Build the demo scene table and print its header",
	Args:  cobra.NoArgs,
	Run:   layout,
}

var flagLayout struct {
	Instances int
	Lights    int
	Out       string
	Strict    bool
	Cull      bool
}

func init() {
	cmdMain.AddCommand(cmdLayout)

	cmdLayout.Flags().IntVarP(&flagLayout.Instances, "instances", "i", 16, "Number of cube instances")
	cmdLayout.Flags().IntVar(&flagLayout.Lights, "lights", 8, "Number of point lights in addition to the sun")
	cmdLayout.Flags().StringVarP(&flagLayout.Out, "out", "o", "", "Write the assembled buffer to this file")
	cmdLayout.Flags().BoolVar(&flagLayout.Strict, "strict", false, "Fail if any block is not word aligned")
	cmdLayout.Flags().BoolVar(&flagLayout.Cull, "cull", false, "Only write instances visible from the demo camera")
}

func layout(cmd *cobra.Command, args []string) {
	scene, err := buildScene(flagLayout.Instances, flagLayout.Lights, flagLayout.Cull)
	checkf(err, "build scene")

	if flagLayout.Strict {
		checkf(table.CheckAlignment(scene), "--strict")
	}

	count := scene.BlockCount()
	buf, err := table.Bytes(scene)
	checkf(err, "assemble scene")

	check(renderLayout(cmd.OutOrStdout(), buf, count, sceneBlocks))

	if flagLayout.Out != "" {
		checkf(os.WriteFile(flagLayout.Out, buf, 0o644), "write %s", flagLayout.Out)
		logger.Infof("[Layout] wrote %s to %s", humanize.Bytes(uint64(len(buf))), flagLayout.Out)
	}
}

// renderLayout prints one row per block of an assembled buffer: its header word,
// byte range, size and a content hash.
func renderLayout(w io.Writer, buf []byte, count int, names []string) error {
	header, err := table.ReadHeader(buf, count)
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Block", "Name", "Word", "Start", "End", "Size", "XXH64"})
	for i, word := range header {
		start, end, err := table.BlockRange(buf, count, i)
		if err != nil {
			return err
		}
		var name string
		if i < len(names) {
			name = names[i]
		}
		tw.Append([]string{
			strconv.Itoa(i),
			common.Coalesce(name, "-"),
			strconv.FormatUint(uint64(word), 10),
			strconv.Itoa(start),
			strconv.Itoa(end),
			humanize.Bytes(uint64(end - start)),
			fmt.Sprintf("%016x", xxhash.Sum64(buf[start:end])),
		})
	}
	tw.SetFooter([]string{"", "", "", "", "Total", humanize.Bytes(uint64(len(buf))),
		fmt.Sprintf("header %d B", count*common.WordBytes)})
	tw.Render()
	return nil
}
