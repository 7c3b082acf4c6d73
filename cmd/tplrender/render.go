package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-templating/internal/varsfile"
)

func renderCmd() *cobra.Command {
	var (
		flags  engineFlags
		set    []string
		ask    []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template",
		Long: `Render a template to stdout, or atomically to --output.

Variables come from --vars, then --set key=value pairs, then --ask
prompts; later sources win.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := flags.logger()

			fileVars, err := flags.vars()
			if err != nil {
				return err
			}
			setVars, err := varsfile.ParsePairs(set)
			if err != nil {
				return err
			}
			askVars, err := prompt(ask)
			if err != nil {
				return err
			}

			e, err := flags.build(logger)
			if err != nil {
				return err
			}

			out, err := e.Render(args[0], varsfile.Merge(fileVars, setVars, askVars))
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}

			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := atomic.WriteFile(output, strings.NewReader(out)); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("template rendered", "template", args[0], "output", output, "bytes", len(out))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVar(&set, "set", nil, "Set a variable (key=value), repeatable")
	cmd.Flags().StringArrayVar(&ask, "ask", nil, "Prompt for a variable value, repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")

	return cmd
}

func prompt(keys []string) (map[string]any, error) {
	vars := make(map[string]any, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		var value string
		if err := survey.AskOne(&survey.Input{Message: key + ":"}, &value); err != nil {
			return nil, fmt.Errorf("prompt %s: %w", key, err)
		}
		vars[key] = value
	}
	return vars, nil
}
