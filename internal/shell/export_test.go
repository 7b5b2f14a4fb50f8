package shell

// SplitArgs exposes the command line splitter to tests.
var SplitArgs = splitArgs
