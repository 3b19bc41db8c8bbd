// Package oracle talks to the external advisory model. The production path
// shells out to a CLI binary with the screenshot paths attached and a hard
// timeout, then parses the label-delimited response. The Invoker interface
// exists so the coordinator can be tested without the binary.
package oracle
