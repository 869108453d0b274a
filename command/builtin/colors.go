package builtin

import (
	"fmt"
	"strings"

	"github.com/danielgatis/go-termgrid/command"
)

// Colors prints the 16 named colors and the 256-color cube as SGR swatches.
func Colors() command.Command {
	return command.NewFunc("colors", "colors [256]", func(c *command.Context) error {
		var b strings.Builder
		for i := 0; i < 16; i++ {
			fmt.Fprintf(&b, "\x1b[48;5;%dm %3d \x1b[0m", i, i)
			if i%8 == 7 {
				b.WriteByte('\n')
			}
		}
		if len(c.Args) > 1 && c.Args[1] == "256" {
			for i := 16; i < 256; i++ {
				fmt.Fprintf(&b, "\x1b[48;5;%dm%4d\x1b[0m", i, i)
				if (i-16)%12 == 11 {
					b.WriteByte('\n')
				}
			}
		}
		_, err := fmt.Fprint(c.Out, b.String())
		return err
	})
}
