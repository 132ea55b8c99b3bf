// Package phonebook holds the in-memory contact directory that pbQL queries
// operate on.
//
// A Store is owned by a single interpreter run. It is not safe for
// concurrent use and is never shared between runs.
package phonebook

import (
	"slices"
	"strings"
)

// Contact is a directory entry. Phones and Emails keep first-insertion
// order and never contain duplicates.
type Contact struct {
	Name   string
	Phones []string
	Emails []string
}

// AddPhone appends phone unless it is already present.
func (c *Contact) AddPhone(phone string) bool {
	return addUnique(&c.Phones, phone)
}

// AddEmail appends email unless it is already present.
func (c *Contact) AddEmail(email string) bool {
	return addUnique(&c.Emails, email)
}

// RemovePhone removes phone if present.
func (c *Contact) RemovePhone(phone string) bool {
	return remove(&c.Phones, phone)
}

// RemoveEmail removes email if present.
func (c *Contact) RemoveEmail(email string) bool {
	return remove(&c.Emails, email)
}

// Matches reports whether the name, any phone, or any email contains sub
// as a literal, case-sensitive substring.
func (c *Contact) Matches(sub string) bool {
	if strings.Contains(c.Name, sub) {
		return true
	}
	return containsAny(c.Phones, sub) || containsAny(c.Emails, sub)
}

// Clone returns a deep copy of the contact.
func (c *Contact) Clone() *Contact {
	return &Contact{
		Name:   c.Name,
		Phones: slices.Clone(c.Phones),
		Emails: slices.Clone(c.Emails),
	}
}

func addUnique(list *[]string, v string) bool {
	if slices.Contains(*list, v) {
		return false
	}
	*list = append(*list, v)
	return true
}

func remove(list *[]string, v string) bool {
	i := slices.Index(*list, v)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}

func containsAny(list []string, sub string) bool {
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.Contains(s, sub)
	})
}
