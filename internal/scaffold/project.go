package scaffold

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Variant identifies a boilerplate type.
type Variant string

// Known variants. Only Express has a scaffold plan.
const (
	Express Variant = "express"
	React   Variant = "react"
	ReactTS Variant = "react-ts"
	Next    Variant = "next"
)

// Variants lists every variant accepted on the command line.
var Variants = []Variant{Express, React, ReactTS, Next}

// ParseVariant maps a command-line value to a Variant.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == strings.ToLower(strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown boilerplate type %q (one of %s)", s, variantList())
}

func variantList() string {
	names := make([]string, len(Variants))
	for i, v := range Variants {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// CurrentDir is the location value meaning "scaffold in place".
const CurrentDir = "."

// Spec describes the project to generate. It is built once from user input
// and not modified during a run.
type Spec struct {
	Variant  Variant
	Name     string
	Location string
}

// NewSpec builds a Spec. An empty location defaults to the project name. A
// name with no usable final segment, such as "/", is rejected.
func NewSpec(variant Variant, name, location string) (Spec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Spec{}, fmt.Errorf("project name is required")
	}
	spec := Spec{Variant: variant, Name: name, Location: location}
	if strings.TrimSpace(spec.Title()) == "" {
		return Spec{}, fmt.Errorf("project name %q has no final path segment", name)
	}
	if spec.Location == "" {
		spec.Location = name
	}
	return spec, nil
}

// Title returns the display name used in the README: the last "/"-separated
// segment of the project name, upper-cased.
func (s Spec) Title() string {
	name := strings.TrimRight(s.Name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return cases.Upper(language.Und).String(name)
}
