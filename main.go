// timeline2svg lays out dated events on a time axis and renders them as SVG.
package main

import (
	"github.com/dbitech/timeline2svg/cmd"
	"github.com/dbitech/timeline2svg/internal/logx"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logx.Fatal("timeline2svg failed", err)
	}
}
