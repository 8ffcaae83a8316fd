package main

import (
	"fmt"

	"fpick/internal/gui"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd() *cobra.Command {
	var chooseRoot bool

	cmd := &cobra.Command{
		Use:   "gui [root]",
		Short: "Launch the graphical user interface",
		Long:  `Browse the folder tree below root in a window. Use "fpick pick --gui" for a modal picker.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return fmt.Errorf("this build of fpick has no GUI")
			}
			cfg.Picker.Root = rootArg(args)
			if chooseRoot {
				root, err := gui.PromptRoot("Choose a root folder")
				if err != nil {
					return err
				}
				cfg.Picker.Root = root
			}
			return gui.Run(cfg, newFs())
		},
	}

	cmd.Flags().BoolVar(&chooseRoot, "choose", false, "ask for the root with the system folder dialog")
	return cmd
}
