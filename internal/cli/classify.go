package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/natevvv/osm-vector-map/pkg/feature"
)

func newClassifyCmd() *cobra.Command {
	var relation, explain bool

	cmd := &cobra.Command{
		Use:     "classify key=value...",
		Short:   "Classify a set of OSM tags",
		Example: `  osmvec classify highway=residential name="High Street"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := parseTags(args)
			if err != nil {
				return err
			}
			return runClassify(cmd.OutOrStdout(), tags, relation, explain)
		},
	}

	cmd.Flags().BoolVar(&relation, "relation", false, "treat the way as a member of a relation")
	cmd.Flags().BoolVar(&explain, "explain", false, "list every rule and whether it matches")

	return cmd
}

func parseTags(args []string) (feature.Tags, error) {
	tags := make(feature.Tags, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid tag %q (want key=value)", arg)
		}
		tags[k] = v
	}
	return tags, nil
}

func runClassify(w io.Writer, tags feature.Tags, relation, explain bool) error {
	if explain {
		for _, r := range feature.Rules {
			mark := " "
			if r.Matches(tags) {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %-18s -> %s\n", mark, r.Name, r.Resolve(relation))
		}
	}
	_, err := fmt.Fprintln(w, feature.Classify(tags, relation))
	return err
}
