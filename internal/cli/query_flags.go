package cli

import (
	"github.com/spf13/pflag"

	"github.com/aidanlsb/quill/internal/note"
	"github.com/aidanlsb/quill/internal/query"
)

// queryFlags holds the filter flags shared by list, open, show, drop and
// export.
type queryFlags struct {
	title  string
	bodies []string
	ids    []string
	tags   []string
}

func (q *queryFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&q.title, "title", "t", "", "Regular expression matched against titles")
	flags.StringArrayVarP(&q.bodies, "body", "b", nil, "Body path to match (repeatable, any of)")
	flags.StringArrayVarP(&q.ids, "id", "i", nil, "Hex note id to match (repeatable, any of)")
	flags.StringArrayVarP(&q.tags, "tags", "g", nil, "Comma-separated tags that must all be present (repeatable)")
}

func (q *queryFlags) query() query.Query {
	return query.Query{
		Title:  q.title,
		Bodies: q.bodies,
		IDs:    q.ids,
		Tags:   note.ParseTags(q.tags),
	}
}

func (q *queryFlags) reset() {
	*q = queryFlags{}
}
