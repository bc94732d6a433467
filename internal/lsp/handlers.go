package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// handleTextDocumentCompletion offers every visible instruction and
// expression name of the platform plus the object types
func (s *Server) handleTextDocumentCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse completion params")
	}

	items := completionItems(s.platform)

	// Names of the objects of the open project come first
	if doc, ok := s.document(params.TextDocument.URI); ok && doc.Project != nil {
		items = append(objectItems(doc.Project), items...)
	}

	return reply(ctx, protocol.CompletionList{IsIncomplete: false, Items: items}, nil)
}

// completionItems lists the platform's names, deduplicated and sorted
func completionItems(p *platform.Platform) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem

	add := func(label, detail, doc string, kind protocol.CompletionItemKind) {
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		item := protocol.CompletionItem{
			Label:  label,
			Kind:   kind,
			Detail: detail,
		}
		if doc != "" {
			item.Documentation = doc
		}
		items = append(items, item)
	}

	addMembers := func(m metadata.Members, owner string, kind protocol.CompletionItemKind) {
		for name, instr := range m.Conditions {
			if !instr.Hidden {
				add(name, memberDetail("condition", owner, instr.FullName), instr.Description, kind)
			}
		}
		for name, instr := range m.Actions {
			if !instr.Hidden {
				add(name, memberDetail("action", owner, instr.FullName), instr.Description, kind)
			}
		}
		for name, expr := range m.Expressions {
			if !expr.Hidden {
				add(name, memberDetail("expression", owner, expr.FullName), expr.Description, kind)
			}
		}
		for name, expr := range m.StrExpressions {
			if !expr.Hidden {
				add(name, memberDetail("string expression", owner, expr.FullName), expr.Description, kind)
			}
		}
	}

	for _, ext := range p.Extensions() {
		addMembers(ext.Members, "", protocol.CompletionItemKindFunction)
		for _, typ := range ext.ObjectOrder {
			obj := ext.Objects[typ]
			add(typ, "object type", obj.Description, protocol.CompletionItemKindClass)
			addMembers(obj.Members, typ, protocol.CompletionItemKindMethod)
		}
		for _, typ := range ext.BehaviorOrder {
			beh := ext.Behaviors[typ]
			add(typ, "behavior type", beh.Description, protocol.CompletionItemKindClass)
			addMembers(beh.Members, typ, protocol.CompletionItemKindMethod)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func memberDetail(category, owner, fullName string) string {
	detail := category
	if owner != "" {
		detail += " of " + owner
	}
	if fullName != "" {
		detail += ": " + fullName
	}
	return detail
}

// objectItems lists the global and scene objects of proj
func objectItems(proj *project.Project) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem
	add := func(obj project.Object) {
		if seen[obj.Name] {
			return
		}
		seen[obj.Name] = true
		items = append(items, protocol.CompletionItem{
			Label:  obj.Name,
			Kind:   protocol.CompletionItemKindVariable,
			Detail: objectDetail(obj),
		})
	}
	for _, obj := range proj.Objects {
		add(obj)
	}
	for _, scene := range proj.Scenes {
		for _, obj := range scene.Objects {
			add(obj)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func objectDetail(obj project.Object) string {
	if obj.Type == "" {
		return "object"
	}
	return "object of type " + obj.Type
}

// handleTextDocumentHover describes the instruction, expression or type
// under the cursor, or the project object of that name
func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse hover params")
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return reply(ctx, nil, nil)
	}
	word, rng, ok := wordAt(doc.Text, params.Position)
	if !ok {
		return reply(ctx, nil, nil)
	}

	markdown := describe(s.platform, word)
	if markdown == "" && doc.Project != nil {
		markdown = describeObject(doc.Project, word)
	}
	if markdown == "" {
		return reply(ctx, nil, nil)
	}

	return reply(ctx, protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: markdown,
		},
		Range: &rng,
	}, nil)
}

// describe renders the platform metadata of name as markdown, "" when
// no extension declares it
func describe(p *platform.Platform, name string) string {
	res := p.Resolve(name)
	if !res.Found() {
		return ""
	}

	members := res.Extension.Members
	switch res.Kind {
	case platform.ObjectMember:
		if obj, ok := res.Extension.Object(res.Owner); ok {
			members = obj.Members
		}
	case platform.BehaviorMember:
		if beh, ok := res.Extension.Behavior(res.Owner); ok {
			members = beh.Members
		}
	}

	var fullName, description, signature string
	switch res.Category {
	case platform.CategoryCondition:
		instr := members.Conditions[name]
		fullName, description, signature = instr.FullName, instr.Description, parameterList(instr.Parameters)
	case platform.CategoryAction:
		instr := members.Actions[name]
		fullName, description, signature = instr.FullName, instr.Description, parameterList(instr.Parameters)
	case platform.CategoryExpression:
		expr := members.Expressions[name]
		fullName, description, signature = expr.FullName, expr.Description, parameterList(expr.Parameters)+": number"
	case platform.CategoryStrExpression:
		expr := members.StrExpressions[name]
		fullName, description, signature = expr.FullName, expr.Description, parameterList(expr.Parameters)+": string"
	case platform.CategoryObject:
		obj := res.Extension.Objects[name]
		fullName, description = obj.FullName, obj.Description
	case platform.CategoryBehavior:
		beh := res.Extension.Behaviors[name]
		fullName, description = beh.FullName, beh.Description
	case platform.CategoryEvent:
		ev := res.Extension.Events[name]
		fullName, description = ev.FullName, ev.Description
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** `%s%s`\n\n", fullName, name, signature)
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s from *%s*", res.Category, res.Extension.FullName)
	if res.Owner != "" && res.Owner != name {
		fmt.Fprintf(&b, ", declared by `%s`", res.Owner)
	}
	return b.String()
}

func parameterList(params []metadata.ParameterMetadata) string {
	var visible []string
	for _, param := range params {
		if param.CodeOnly {
			continue
		}
		entry := param.Type
		if param.Optional {
			entry += "?"
		}
		visible = append(visible, entry)
	}
	return "(" + strings.Join(visible, ", ") + ")"
}

// describeObject renders the objects named name declared by proj
func describeObject(proj *project.Project, name string) string {
	var lines []string
	for _, obj := range proj.Objects {
		if obj.Name == name {
			lines = append(lines, fmt.Sprintf("global %s", objectDetail(obj)))
		}
	}
	for _, scene := range proj.Scenes {
		for _, obj := range scene.Objects {
			if obj.Name == name {
				lines = append(lines, fmt.Sprintf("%s in scene *%s*", objectDetail(obj), scene.Name))
			}
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return fmt.Sprintf("**%s**\n\n%s", name, strings.Join(lines, "\n\n"))
}

// handleTextDocumentDocumentSymbol lists the scenes with their objects
// and the events-based functions of a project file
func (s *Server) handleTextDocumentDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse documentSymbol params")
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Project == nil {
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}
	return reply(ctx, documentSymbols(doc.Text, doc.Project), nil)
}

func documentSymbols(text string, proj *project.Project) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}

	symbolRange := func(name string, from int) (protocol.Range, int) {
		start, end, ok := findName(text, name, from)
		if !ok {
			return protocol.Range{}, from
		}
		return protocol.Range{Start: positionAt(text, start), End: positionAt(text, end)}, end
	}

	for _, scene := range proj.Scenes {
		rng, offset := symbolRange(scene.Name, 0)
		sym := protocol.DocumentSymbol{
			Name:           scene.Name,
			Detail:         fmt.Sprintf("scene, %d event(s)", len(scene.Events)),
			Kind:           protocol.SymbolKindNamespace,
			Range:          rng,
			SelectionRange: rng,
		}
		for _, obj := range scene.Objects {
			objRange, _ := symbolRange(obj.Name, offset)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           obj.Name,
				Detail:         obj.Type,
				Kind:           protocol.SymbolKindObject,
				Range:          objRange,
				SelectionRange: objRange,
			})
		}
		symbols = append(symbols, sym)
	}

	for _, ext := range proj.FunctionsExtensions {
		rng, offset := symbolRange(ext.Name, 0)
		sym := protocol.DocumentSymbol{
			Name:           ext.Name,
			Detail:         "functions extension",
			Kind:           protocol.SymbolKindModule,
			Range:          rng,
			SelectionRange: rng,
		}
		for _, fn := range ext.Functions {
			fnRange, _ := symbolRange(fn.Name, offset)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           fn.Name,
				Detail:         fn.FunctionType,
				Kind:           protocol.SymbolKindFunction,
				Range:          fnRange,
				SelectionRange: fnRange,
			})
		}
		symbols = append(symbols, sym)
	}

	return symbols
}
