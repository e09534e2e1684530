package batch

import "github.com/sirupsen/logrus"

// AssemblerBuilderOption is a functional option used to configure an Assembler during construction.
type AssemblerBuilderOption func(*assembler)

// WithWorkers sets the maximum number of concurrent table writes. Values below 1
// are clamped to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - AssemblerBuilderOption: a function that sets the worker count
func WithWorkers(n int) AssemblerBuilderOption {
	return func(a *assembler) {
		if n < 1 {
			n = 1
		}
		a.workers = n
	}
}

// WithQueueSize sets how many submitted jobs may wait for a free worker.
//
// Parameters:
//   - n: the queue size
//
// Returns:
//   - AssemblerBuilderOption: a function that sets the queue size
func WithQueueSize(n int) AssemblerBuilderOption {
	return func(a *assembler) {
		if n < 1 {
			n = 1
		}
		a.queueSize = n
	}
}

// WithLogger sets the logger failed jobs are reported to.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - AssemblerBuilderOption: a function that sets the logger
func WithLogger(logger logrus.FieldLogger) AssemblerBuilderOption {
	return func(a *assembler) {
		a.logger = logger
	}
}
