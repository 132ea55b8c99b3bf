package parser

import "github.com/leapstack-labs/pbql/pkg/token"

// CommandKind identifies the command family.
type CommandKind int

// Command kinds.
const (
	CreateContact CommandKind = iota
	DeleteContact
	DeleteContactsWhere
	AddItems
	DeleteItems
	Show
)

var commandKindNames = [...]string{
	CreateContact:       "create_contact",
	DeleteContact:       "delete_contact",
	DeleteContactsWhere: "delete_contacts_where",
	AddItems:            "add_items",
	DeleteItems:         "delete_items",
	Show:                "show",
}

func (k CommandKind) String() string {
	if int(k) < len(commandKindNames) {
		return commandKindNames[k]
	}
	return "unknown"
}

// Item is a phone or email attached to an add/delete items command.
type Item struct {
	Kind  TokenType // token.PHONE or token.EMAIL
	Value string
}

// IsPhone reports whether the item is a phone number.
func (it Item) IsPhone() bool { return it.Kind == token.PHONE }

// IsEmail reports whether the item is an email address.
func (it Item) IsEmail() bool { return it.Kind == token.EMAIL }

// Command is one parsed pbQL command.
type Command struct {
	Kind CommandKind
	Line int // 1-based command number within the query

	// Name is the target contact for Create, Delete, AddItems and DeleteItems.
	Name string
	// Query is the search substring for DeleteContactsWhere and Show.
	// An empty Query matches nothing.
	Query string
	// Items lists the phones and emails of AddItems and DeleteItems.
	Items []Item
	// Fields lists the requested Show fields in request order.
	Fields []TokenType
}
