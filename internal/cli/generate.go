package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
	"github.com/matzehuels/dotflow/pkg/export"
	"github.com/matzehuels/dotflow/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	text      string   // inline DSL instead of a file
	output    string   // output path, or base path for several formats
	formats   []string // dot, svg, png, pdf, jpg
	name      string   // graph name
	direction string   // TB, LR, RL, BT
	maxLabel  int      // label length ceiling
	refresh   bool     // bypass cached artifacts
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [file.flow | -]",
		Short: "Generate DOT or a rendered diagram from DSL",
		Long: `Generate reads flow DSL from a file, stdin ("-") or --text and writes DOT
or a rendered diagram.

Without --output and with only the dot format, DOT text goes to stdout.
With several formats, --output is a base path and each format gets its
own extension.`,
		Example: `  dotflow generate checkout.flow
  dotflow generate checkout.flow -o checkout.svg
  dotflow generate checkout.flow -f svg,png -o out/checkout
  echo "a -> b -> c" | dotflow generate - --theme dark -d LR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "inline DSL text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for dot)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: dot, svg, png, pdf, jpg (default: from --output extension, else dot)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "graph name (default: input file name)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "TB", "rank direction: TB, LR, RL or BT")
	cmd.Flags().IntVar(&opts.maxLabel, "max-label", 0, "maximum label length in characters")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached renders")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, args []string, opts generateOpts) error {
	ctx := contextOf(cmd)
	logger := loggerFromContext(ctx)

	src, name, err := readSource(cmd.InOrStdin(), args, opts.text)
	if err != nil {
		return err
	}
	if opts.name != "" {
		name = opts.name
	}

	formats := opts.formats
	if len(formats) == 0 {
		formats = []string{string(export.DOT)}
		if opts.output != "" && filepath.Ext(opts.output) != "" {
			f, err := export.FormatFromPath(opts.output)
			if err != nil {
				return err
			}
			formats = []string{string(f)}
		}
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Name:           name,
		Theme:          c.v.GetString("theme"),
		Direction:      opts.direction,
		DSL:            src,
		Formats:        formats,
		MaxLabelLength: opts.maxLabel,
		Refresh:        opts.refresh,
		Logger:         logger,
	}
	if err := popts.ValidateAndSetDefaults(runner.Registry); err != nil {
		return err
	}

	toStdout := opts.output == "" && len(popts.ParsedFormats()) == 1 && popts.ParsedFormats()[0] == export.DOT
	var spin *Spinner
	if !toStdout {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+strings.Join(popts.Formats, ", "))
		spin.Start()
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if toStdout {
		_, err := c.out.Write(res.DOT)
		return err
	}

	base := outputBase(opts.output, name)
	formatsOut := popts.ParsedFormats()
	var written []string
	for _, f := range formatsOut {
		path := base + f.Ext()
		if len(formatsOut) == 1 && opts.output != "" && filepath.Ext(opts.output) != "" {
			path = opts.output
		}
		if err := export.WriteFile(path, res.Artifacts[string(f)]); err != nil {
			return err
		}
		written = append(written, path)
	}
	prog.done("generated", "graph", name, "formats", len(written))

	c.printSuccess("Generated %s", name)
	c.printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.ClusterCount, res.CacheInfo.RenderHit)
	for _, p := range written {
		c.printFile(p)
	}
	return nil
}

// readSource returns the DSL text and a default graph name.
func readSource(stdin io.Reader, args []string, text string) (string, string, error) {
	switch {
	case text != "" && len(args) > 0:
		return "", "", derrors.New(derrors.ErrCodeInvalidConfig, "use either a file argument or --text, not both")
	case text != "":
		return text, pipeline.DefaultName, nil
	case len(args) == 0:
		return "", "", derrors.New(derrors.ErrCodeInvalidConfig, "no input: pass a file, - for stdin, or --text")
	case args[0] == "-":
		data, err := io.ReadAll(io.LimitReader(stdin, pipeline.MaxDSLBytes+1))
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), pipeline.DefaultName, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), graphNameFromPath(args[0]), nil
}

// graphNameFromPath derives a graph name from a file name: "my-flow.flow" → "my_flow".
func graphNameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := strings.Map(func(r rune) rune {
		if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r
		}
		return '_'
	}, base)
	if name == "" || name[0] >= '0' && name[0] <= '9' {
		name = "flow_" + name
	}
	return name
}

// outputBase strips the extension from output, defaulting to name.
func outputBase(output, name string) string {
	if output == "" {
		return name
	}
	if ext := filepath.Ext(output); ext != "" {
		if _, err := export.ParseFormat(ext); err == nil {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
