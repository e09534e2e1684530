package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var cmdMain = &cobra.Command{
	Use:   "gputable",
	Short: "Inspect and benchmark GPU table layouts",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	LogLevel levelFlag
}

func init() {
	flagMain.LogLevel = levelFlag(logrus.InfoLevel)
	cmdMain.PersistentFlags().VarP(&flagMain.LogLevel, "log-level", "l", "Log level (panic, fatal, error, warn, info, debug, trace)")
	cmdMain.PersistentPreRun = func(*cobra.Command, []string) {
		logger.SetLevel(logrus.Level(flagMain.LogLevel))
	}
}

var logger = logrus.New()

func main() {
	check(cmdMain.Execute())
}

// levelFlag is a logrus level that can be set from the command line.
type levelFlag logrus.Level

var _ pflag.Value = (*levelFlag)(nil)

func (l *levelFlag) String() string { return logrus.Level(*l).String() }

func (l *levelFlag) Set(s string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*l = levelFlag(lvl)
	return nil
}

func (l *levelFlag) Type() string { return "level" }

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func check(err error) {
	if err != nil {
		fatalf("%v", err)
	}
}

func checkf(err error, format string, otherArgs ...any) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}
