package main

import (
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/Carmen-Shannon/gputable/engine/batch"
	"github.com/Carmen-Shannon/gputable/engine/profiler"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var cmdBench = &cobra.Command{
	Use:   "bench",
	Short: "Compare slice and sequence block write throughput",
	Args:  cobra.NoArgs,
	Run:   bench,
}

var flagBench struct {
	Values     int
	Iterations int
	Tables     int
	Workers    int
}

func init() {
	cmdMain.AddCommand(cmdBench)

	cmdBench.Flags().IntVarP(&flagBench.Values, "values", "n", 1<<20, "Number of u32 values per table")
	cmdBench.Flags().IntVar(&flagBench.Iterations, "iterations", 20, "Writes per case")
	cmdBench.Flags().IntVar(&flagBench.Tables, "tables", 8, "Tables per iteration in the batch case")
	cmdBench.Flags().IntVarP(&flagBench.Workers, "workers", "w", 0, "Batch workers (0 = NumCPU-1)")
}

// region is an io.WriterAt over a byte slice, standing in for a mapped GPU buffer.
type region []byte

func (r region) WriteAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r)) {
		return 0, io.ErrShortWrite
	}
	n := copy(r[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

type benchCase struct {
	name string
	run  func() (int64, error)
}

func bench(cmd *cobra.Command, args []string) {
	src := make([]uint32, flagBench.Values)
	for i := range src {
		src[i] = uint32(i)
	}
	dst := make([]byte, (len(src)+1)*4)

	var opts []batch.AssemblerBuilderOption
	opts = append(opts, batch.WithLogger(logger))
	if flagBench.Workers > 0 {
		opts = append(opts, batch.WithWorkers(flagBench.Workers))
	}
	assembler := batch.NewAssembler(opts...)
	defer assembler.Stop()

	cases := []benchCase{
		{"slice -> slice writer", func() (int64, error) {
			return table.Append(table.Empty{}, table.Slice(src)).WriteTo(table.NewSliceWriter(dst))
		}},
		{"seq -> slice writer", func() (int64, error) {
			return table.Append(table.Empty{}, table.Seq(slices.Values(src))).WriteTo(table.NewSliceWriter(dst))
		}},
		{"slice -> offset writer", func() (int64, error) {
			return table.Append(table.Empty{}, table.Slice(src)).WriteTo(io.NewOffsetWriter(region(dst), 0))
		}},
		{"seq -> offset writer", func() (int64, error) {
			return table.Append(table.Empty{}, table.Seq(slices.Values(src))).WriteTo(io.NewOffsetWriter(region(dst), 0))
		}},
		{"batch x" + strconv.Itoa(flagBench.Tables), func() (int64, error) {
			tables := make([]table.Table, flagBench.Tables)
			for i := range tables {
				tables[i] = table.Append(table.Empty{}, table.Slice(src))
			}
			bufs, err := batch.Assemble(assembler, tables...)
			var n int64
			for _, b := range bufs {
				n += int64(len(b))
			}
			return n, err
		}},
	}

	p := profiler.NewProfiler(profiler.WithLogger(logger))
	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"Case", "Written", "Time/op", "Throughput", "Allocs/op", "GCs"})
	for _, c := range cases {
		total := profiler.Stats{Name: c.name}
		for range flagBench.Iterations {
			s, err := p.Measure(c.name, c.run)
			checkf(err, "%s", c.name)
			total.Bytes += s.Bytes
			total.Elapsed += s.Elapsed
			total.Allocs += s.Allocs
			total.AllocBytes += s.AllocBytes
			total.GCs += s.GCs
			p.Tick()
		}
		iters := max(flagBench.Iterations, 1)
		tw.Append([]string{
			c.name,
			humanize.Bytes(uint64(total.Bytes)),
			(total.Elapsed / time.Duration(iters)).String(),
			humanize.Bytes(uint64(total.Throughput())) + "/s",
			strconv.FormatUint(total.Allocs/uint64(iters), 10),
			strconv.FormatUint(uint64(total.GCs), 10),
		})
	}
	tw.Render()
}
