// Package special parses "tdux:" commands embedded by the document into the
// event stream.
package special

import (
	"strings"
)

const Prefix = "tdux:"

type Kind int

const (
	Unknown Kind = iota
	AddTemplate
	SetTemplate
	SetOutputPath
	SetTemplateVariable
	ProvideFile
	ProvideSpecial
	StartTag
	EndTag
	CanvasStart
	CanvasEnd
	Emit
	ContentFinished
)

var commands = map[string]Kind{
	"addTemplate":         AddTemplate,
	"setTemplate":         SetTemplate,
	"setOutputPath":       SetOutputPath,
	"setTemplateVariable": SetTemplateVariable,
	"provideFile":         ProvideFile,
	"provideSpecial":      ProvideSpecial,
	"as":                  StartTag,
	"ae":                  EndTag,
	"cs":                  CanvasStart,
	"ce":                  CanvasEnd,
	"emit":                Emit,
	"contentFinished":     ContentFinished,
}

func (k Kind) String() string {
	for name, v := range commands {
		if v == k {
			return name
		}
	}
	return "unknown"
}

// Special is a single parsed command.
type Special struct {
	Kind Kind
	// Arg is everything after the command name and a single space.
	Arg string
	// Raw keeps original contents for diagnostics.
	Raw string
}

// Ours reports specials in our namespace, whether recognized or not.
func (s Special) Ours() bool {
	return strings.HasPrefix(s.Raw, Prefix)
}

// Parse recognizes command, anything foreign to us has Unknown kind.
func Parse(contents string) Special {
	s := Special{Raw: contents}
	rest, ok := strings.CutPrefix(contents, Prefix)
	if !ok {
		return s
	}
	name, arg, hasArg := strings.Cut(rest, " ")
	k, ok := commands[name]
	if !ok || (hasArg && bare(k)) {
		return s
	}
	s.Kind, s.Arg = k, arg
	return s
}

// bare commands must match exactly, without any argument.
func bare(k Kind) bool {
	return k == Emit || k == ContentFinished
}

// Pair splits argument on the first space.
func (s Special) Pair() (first, second string, ok bool) {
	return strings.Cut(s.Arg, " ")
}

// NeedsRendering reports commands which require engine to leave
// initialization phase first. Content commands do not, they are dropped
// until document produces text.
func (s Special) NeedsRendering() bool {
	return s.Kind == Emit || s.Kind == ProvideFile
}

// Content reports commands that change document content.
func (s Special) Content() bool {
	switch s.Kind {
	case StartTag, EndTag, CanvasStart, CanvasEnd:
		return true
	}
	return false
}
