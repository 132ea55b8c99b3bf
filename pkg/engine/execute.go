package engine

import (
	"github.com/leapstack-labs/pbql/pkg/format"
	"github.com/leapstack-labs/pbql/pkg/parser"
	"github.com/leapstack-labs/pbql/pkg/phonebook"
)

// execute applies one command to store and returns its output lines.
// Semantic anomalies (missing contacts, duplicate or absent items, empty
// search strings) are silent no-ops.
func execute(store *phonebook.Store, cmd *parser.Command) []string {
	switch cmd.Kind {
	case parser.CreateContact:
		store.Create(cmd.Name)

	case parser.DeleteContact:
		store.Delete(cmd.Name)

	case parser.DeleteContactsWhere:
		if cmd.Query != "" {
			store.DeleteMatching(cmd.Query)
		}

	case parser.AddItems:
		if c, ok := store.Get(cmd.Name); ok {
			for _, it := range cmd.Items {
				if it.IsPhone() {
					c.AddPhone(it.Value)
				} else {
					c.AddEmail(it.Value)
				}
			}
		}

	case parser.DeleteItems:
		if c, ok := store.Get(cmd.Name); ok {
			for _, it := range cmd.Items {
				if it.IsPhone() {
					c.RemovePhone(it.Value)
				} else {
					c.RemoveEmail(it.Value)
				}
			}
		}

	case parser.Show:
		if cmd.Query == "" {
			return nil
		}
		return format.Lines(store.Find(cmd.Query), cmd.Fields)
	}
	return nil
}
