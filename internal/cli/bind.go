package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coderi421/bow/orm"
	"github.com/coderi421/bow/orm/params"
)

type boundArg struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type bindOutput struct {
	SQL  string     `json:"sql"`
	Args []boundArg `json:"args"`
}

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	var rawParams []string

	cmd := &cobra.Command{
		Use:   "bind <query>",
		Short: "Show the statement and arguments produced for a query",
		Long: `Bind named parameters into a query the same way queries are executed.

A value containing commas is a sequence, so --param Ids=1,2,3 turns
"Id in @Ids" into "Id in (@Ids0, @Ids1, @Ids2)". Integers are passed
as numbers, everything else as strings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBind(rootOpts, cmd, args[0], rawParams)
		},
	}
	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "parameter as name=value, repeatable")

	return cmd
}

func runBind(opts *RootOptions, cmd *cobra.Command, query string, rawParams []string) error {
	log := opts.logger(cmd.ErrOrStderr())

	bag, err := parseParams(rawParams)
	if err != nil {
		return err
	}
	log.Debug().Int("params", bag.Len()).Msg("binding")

	q, err := orm.Bind(query, bag)
	if err != nil {
		return err
	}

	out := bindOutput{SQL: q.SQL, Args: make([]boundArg, 0, len(q.Args))}
	for _, a := range q.Args {
		na := a.(sql.NamedArg)
		out.Args = append(out.Args, boundArg{Name: na.Name, Value: na.Value})
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Fprintln(w, out.SQL)
	for _, a := range out.Args {
		fmt.Fprintf(w, "@%s = %v\n", a.Name, a.Value)
	}
	return nil
}

func parseParams(raw []string) (*params.Bag, error) {
	bag := params.New()
	for _, p := range raw {
		name, val, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: want name=value", p)
		}
		if !strings.Contains(val, ",") {
			bag.Add(name, parseValue(val))
			continue
		}
		parts := strings.Split(val, ",")
		seq := make([]any, 0, len(parts))
		for _, part := range parts {
			seq = append(seq, parseValue(strings.TrimSpace(part)))
		}
		bag.Set(name, params.Sequence(seq...))
	}
	return bag, nil
}

func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
