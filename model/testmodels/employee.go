/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"github.com/suparena/resourcekit"
	"github.com/suparena/resourcekit/datastore"
	"github.com/suparena/resourcekit/errors"
	"github.com/suparena/resourcekit/mapping"
	"github.com/suparena/resourcekit/model"
	"github.com/suparena/resourcekit/registry"
)

// Employee is a Person with a salary and a department.
type Employee struct {
	Person

	salary     float64
	department string
}

var employeeAttrs = mapping.Define[Employee](personAttrs,
	mapping.Attribute{
		Name: "salary",
		Get:  func(m any) any { return m.(*Employee).Salary() },
		Set: func(m any, v any) error {
			n, ok := datastore.Number(v)
			if !ok {
				return errors.New(errors.KindInvalidData, "Employee.salary", "expected number, got %T", v)
			}
			m.(*Employee).SetSalary(n)
			return nil
		},
		AutoStore: true,
	},
	mapping.Attribute{
		Name: "department",
		Get:  func(m any) any { return m.(*Employee).Department() },
		Set: func(m any, v any) error {
			s, ok := v.(string)
			if !ok {
				return errors.New(errors.KindInvalidData, "Employee.department", "expected string, got %T", v)
			}
			m.(*Employee).SetDepartment(s)
			return nil
		},
	},
)

// EmployeeAttributes returns the attribute set of Employee, Person's attributes first.
func EmployeeAttributes() *mapping.Set {
	return employeeAttrs
}

// NewEmployee creates an unshared Employee.
func NewEmployee(id any, opts model.Options) *Employee {
	e := &Employee{}
	e.Init(e, employeeAttrs, id, opts)
	return e
}

var employees = model.NewTable[*Employee]()

// GetEmployeeByID returns the shared Employee for id. The caller owns one reference.
func GetEmployeeByID(id any) (*Employee, error) {
	return employees.Get(id, func(id any) (*Employee, error) {
		b, err := resourcekit.BindingFor[Employee](resourcekit.DefaultBindings())
		if err != nil {
			return nil, err
		}
		return NewEmployee(id, b.Options()), nil
	})
}

func (e *Employee) Salary() float64 { return model.Read(&e.Base, &e.salary) }

func (e *Employee) SetSalary(s float64) { model.Assign(&e.Base, &e.salary, s, "salary") }

func (e *Employee) Department() string { return model.Read(&e.Base, &e.department) }

func (e *Employee) SetDepartment(d string) {
	model.Assign(&e.Base, &e.department, d, "department")
}

// Register adds Person and Employee to r.
func Register(r *registry.Registry) error {
	if err := r.RegisterModel("Person", registry.Constructor{
		New: func(id any) (model.Model, error) {
			b, err := resourcekit.BindingFor[Person](resourcekit.DefaultBindings())
			if err != nil {
				return nil, err
			}
			return NewPerson(id, b.Options()), nil
		},
		GetResourceByID: func(id any) (model.Model, error) {
			p, err := GetPersonByID(id)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}); err != nil {
		return err
	}
	return r.RegisterModel("Employee", registry.Constructor{
		New: func(id any) (model.Model, error) {
			b, err := resourcekit.BindingFor[Employee](resourcekit.DefaultBindings())
			if err != nil {
				return nil, err
			}
			return NewEmployee(id, b.Options()), nil
		},
		GetResourceByID: func(id any) (model.Model, error) {
			e, err := GetEmployeeByID(id)
			if err != nil {
				return nil, err
			}
			return e, nil
		},
	})
}
