// Package platform is the registry of the extensions available to a code
// generation target. It answers "which extension declares this condition,
// action, expression, object type or behavior type" with the shadowing
// rules of the events system.
//
// A Platform is populated once and is read-only afterwards, so it can be
// shared by concurrent generation passes.
package platform

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/metadata"
)

// Target names
const (
	TargetJS     = "js"
	TargetNative = "native"
)

// Platform holds the registered extensions of one target
type Platform struct {
	target     string
	extensions []*metadata.PlatformExtension
	byName     map[string]*metadata.PlatformExtension

	badInstruction *metadata.InstructionMetadata
	badExpression  *metadata.ExpressionMetadata
	badObject      *metadata.ObjectMetadata
	badBehavior    *metadata.BehaviorMetadata
	badEvent       *metadata.EventMetadata
}

// New creates an empty platform for target
func New(target string) *Platform {
	return &Platform{
		target:         target,
		byName:         make(map[string]*metadata.PlatformExtension),
		badInstruction: metadata.NewBadInstructionMetadata(),
		badExpression:  metadata.NewBadExpressionMetadata(),
		badObject:      metadata.NewBadObjectMetadata(),
		badBehavior:    metadata.NewBadBehaviorMetadata(),
		badEvent:       metadata.NewBadEventMetadata(),
	}
}

// Target returns the target the platform generates code for
func (p *Platform) Target() string {
	return p.target
}

// AddExtension registers ext. Lookups search extensions in registration
// order. Registering a name again replaces the previous extension in place.
func (p *Platform) AddExtension(ext *metadata.PlatformExtension) {
	if prev, ok := p.byName[ext.Name]; ok {
		for i, e := range p.extensions {
			if e == prev {
				p.extensions[i] = ext
			}
		}
	} else {
		p.extensions = append(p.extensions, ext)
	}
	p.byName[ext.Name] = ext
}

// Extensions returns the registered extensions in registration order
func (p *Platform) Extensions() []*metadata.PlatformExtension {
	return append([]*metadata.PlatformExtension(nil), p.extensions...)
}

// Extension returns the extension registered under name
func (p *Platform) Extension(name string) (*metadata.PlatformExtension, bool) {
	ext, ok := p.byName[name]
	return ext, ok
}

// BadInstructionMetadata returns the sentinel returned by failed lookups
func (p *Platform) BadInstructionMetadata() *metadata.InstructionMetadata {
	return p.badInstruction
}

// BadExpressionMetadata returns the sentinel returned by failed lookups
func (p *Platform) BadExpressionMetadata() *metadata.ExpressionMetadata {
	return p.badExpression
}

// IsBad reports whether m is one of the platform's sentinels, or nil
func (p *Platform) IsBad(m any) bool {
	switch md := m.(type) {
	case *metadata.InstructionMetadata:
		return md == p.badInstruction || md.IsBad()
	case *metadata.ExpressionMetadata:
		return md == p.badExpression || md.IsBad()
	case *metadata.ObjectMetadata:
		return md == p.badObject || md.IsBad()
	case *metadata.BehaviorMetadata:
		return md == p.badBehavior || md.IsBad()
	case *metadata.EventMetadata:
		return md == p.badEvent || md.IsBad()
	case nil:
		return true
	}
	return false
}

// Fingerprint identifies the set of registered extensions and what they
// declare. It changes whenever an extension is added or gains a member.
func (p *Platform) Fingerprint() string {
	var names []string
	for _, ext := range p.extensions {
		for _, n := range ext.AllInstructionNames() {
			names = append(names, ext.Name+"/"+n)
		}
		names = append(names, "extension:"+ext.Name)
	}
	sort.Strings(names)

	h := sha256.New()
	h.Write([]byte(p.target))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(names, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}
