package menus

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/igolaizola/musikbot/pkg/conversation"
	"github.com/igolaizola/musikbot/pkg/menu"
)

type Config struct {
	Input string
}

// Run validates a menu file and prints the keyboards it produces.
func Run(ctx context.Context, cfg *Config) error {
	return render(os.Stdout, cfg)
}

func render(w io.Writer, cfg *Config) error {
	set := menu.Default()
	if cfg.Input != "" {
		candidate, err := menu.Load(cfg.Input)
		if err != nil {
			return fmt.Errorf("menus: %w", err)
		}
		set = candidate
	}
	names := conversation.MenuNames()
	if err := set.Validate(names...); err != nil {
		return fmt.Errorf("menus: %w", err)
	}
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, strings.ReplaceAll(set.Message(name), "\n", " "))
		for _, row := range set.Keyboard(name) {
			var cells []string
			for _, b := range row {
				cells = append(cells, fmt.Sprintf("[%s → %s]", b.Label, b.Payload))
			}
			fmt.Fprintf(w, "  %s\n", strings.Join(cells, " "))
		}
	}
	return nil
}
