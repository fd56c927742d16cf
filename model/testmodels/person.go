/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/resourcekit"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/model"
)

// Person is a named contact.
type Person struct {
	model.Base

	name string

	// Format: email
	email strfmt.Email

	// Format: date-time
	createdAt strfmt.DateTime
}

// personal is implemented by Person and every type embedding it.
type personal interface {
	person() *Person
}

func (p *Person) person() *Person { return p }

func asPerson(m any) *Person { return m.(personal).person() }

var personAttrs = mapping.Define[Person](nil,
	mapping.Attribute{
		Name: "name",
		Get:  func(m any) any { return asPerson(m).Name() },
		Set: func(m any, v any) error {
			s, ok := v.(string)
			if !ok {
				return errors.New(errors.KindInvalidData, "Person.name", "expected string, got %T", v)
			}
			asPerson(m).SetName(s)
			return nil
		},
		AutoStore: true,
	},
	mapping.Attribute{
		Name: "email",
		Get:  func(m any) any { return asPerson(m).Email().String() },
		Set: func(m any, v any) error {
			s, ok := v.(string)
			if !ok {
				return errors.New(errors.KindInvalidData, "Person.email", "expected string, got %T", v)
			}
			return asPerson(m).SetEmail(s)
		},
		AutoStore: true,
	},
	mapping.Attribute{
		Name:      "createdAt",
		Get:       func(m any) any { return asPerson(m).CreatedAt() },
		GetHelper: formatDateTime,
		SetHelper: parseDateTime,
		Set: func(m any, v any) error {
			dt, ok := v.(strfmt.DateTime)
			if !ok {
				return errors.New(errors.KindInvalidData, "Person.createdAt", "expected date-time, got %v", v)
			}
			asPerson(m).SetCreatedAt(dt)
			return nil
		},
	},
)

// PersonAttributes returns the attribute set of Person.
func PersonAttributes() *mapping.Set {
	return personAttrs
}

// NewPerson creates an unshared Person. Use GetPersonByID for the shared instance.
func NewPerson(id any, opts model.Options) *Person {
	p := &Person{}
	p.Init(p, personAttrs, id, opts)
	return p
}

var people = model.NewTable[*Person]()

// GetPersonByID returns the shared Person for id, attached to the engines bound to Person.
// The caller owns one reference.
func GetPersonByID(id any) (*Person, error) {
	return people.Get(id, func(id any) (*Person, error) {
		b, err := resourcekit.BindingFor[Person](resourcekit.DefaultBindings())
		if err != nil {
			return nil, err
		}
		return NewPerson(id, b.Options()), nil
	})
}

func (p *Person) Name() string { return model.Read(&p.Base, &p.name) }

func (p *Person) SetName(name string) { model.Assign(&p.Base, &p.name, name, "name") }

func (p *Person) Email() strfmt.Email { return model.Read(&p.Base, &p.email) }

// SetEmail sets the address if it is a valid email or empty.
func (p *Person) SetEmail(email string) error {
	if email != "" && !strfmt.IsEmail(email) {
		return errors.New(errors.KindInvalidData, "Person.SetEmail", "%q is not an email address", email)
	}
	model.Assign(&p.Base, &p.email, strfmt.Email(email), "email")
	return nil
}

func (p *Person) CreatedAt() strfmt.DateTime { return model.Read(&p.Base, &p.createdAt) }

func (p *Person) SetCreatedAt(dt strfmt.DateTime) {
	model.Assign(&p.Base, &p.createdAt, dt, "createdAt")
}

func (p *Person) String() string {
	return fmt.Sprintf("Person(%v, %s)", p.ID(), p.Name())
}

func formatDateTime(v any) any {
	dt, ok := v.(strfmt.DateTime)
	if !ok || time.Time(dt).IsZero() {
		return nil
	}
	return dt.String()
}

// parseDateTime leaves values it cannot parse unchanged so the setter rejects them.
func parseDateTime(v any) any {
	switch t := v.(type) {
	case nil:
		return strfmt.DateTime{}
	case string:
		dt, err := strfmt.ParseDateTime(t)
		if err != nil {
			return v
		}
		return dt
	}
	return v
}

// ReleasePerson drops the shared instance for id once its other holders are gone.
func ReleasePerson(id any) {
	people.Release(id)
}
