package lsp

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	cerrors "github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/extensions"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	backend, err := codegen.NewBackend(platform.TargetJS)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return NewServer(extensions.NewPlatform(platform.TargetJS), backend, nil)
}

// testClient is the editor side of a server running over an in-memory pipe
type testClient struct {
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
	serverErr   chan error
}

func startServer(t *testing.T) *testClient {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	server := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := &testClient{
		conn:        jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide)),
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 16),
		serverErr:   make(chan error, 1),
	}
	go func() { c.serverErr <- server.Run(ctx, serverSide) }()

	c.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == protocol.MethodTextDocumentPublishDiagnostics {
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return err
			}
			c.diagnostics <- params
		}
		return reply(ctx, nil, nil)
	})
	t.Cleanup(func() { c.conn.Close() })

	var result protocol.InitializeResult
	if _, err := c.conn.Call(ctx, protocol.MethodInitialize, &protocol.InitializeParams{
		RootURI: "file:///workspace",
	}, &result); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != "eventc-lsp" {
		t.Fatalf("unexpected server info %+v", result.ServerInfo)
	}
	if err := c.conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("initialized: %v", err)
	}
	return c
}

func (c *testClient) open(t *testing.T, uri protocol.DocumentURI, text string) {
	t.Helper()
	err := c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "json",
			Version:    1,
			Text:       text,
		},
	})
	if err != nil {
		t.Fatalf("didOpen: %v", err)
	}
}

func (c *testClient) nextDiagnostics(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case params := <-c.diagnostics:
		return params
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
		return protocol.PublishDiagnosticsParams{}
	}
}

func TestServerInitialization(t *testing.T) {
	server := newTestServer(t)

	if server.analyzer == nil {
		t.Error("analyzer is nil")
	}
	if server.logger == nil {
		t.Error("logger is nil")
	}
	if server.capabilities.CompletionProvider == nil {
		t.Error("CompletionProvider is nil")
	}
	if server.capabilities.HoverProvider != true {
		t.Error("HoverProvider should be true")
	}
	if server.capabilities.DocumentSymbolProvider != true {
		t.Error("DocumentSymbolProvider should be true")
	}
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		in   cerrors.ErrorSeverity
		want protocol.DiagnosticSeverity
	}{
		{cerrors.SeverityError, protocol.DiagnosticSeverityError},
		{cerrors.SeverityWarning, protocol.DiagnosticSeverityWarning},
		{cerrors.SeverityInfo, protocol.DiagnosticSeverityInformation},
		{"", protocol.DiagnosticSeverityError},
	}
	for _, tt := range tests {
		if got := convertSeverity(tt.in); got != tt.want {
			t.Errorf("convertSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestServer_PublishesDiagnostics(t *testing.T) {
	c := startServer(t)
	uri := protocol.DocumentURI("file:///workspace/game.json")

	c.open(t, uri, brokenProject)
	params := c.nextDiagnostics(t)
	if params.URI != uri {
		t.Errorf("diagnostics for %s, want %s", params.URI, uri)
	}
	named := false
	for _, d := range params.Diagnostics {
		named = named || strings.Contains(d.Message, "NoSuchAction")
	}
	if !named {
		t.Errorf("expected a diagnostic naming NoSuchAction, got %v", params.Diagnostics)
	}

	// Fixing the document clears its errors
	err := c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: validProject}},
	})
	if err != nil {
		t.Fatalf("didChange: %v", err)
	}
	params = c.nextDiagnostics(t)
	if n := errorCount(params.Diagnostics); n != 0 {
		t.Errorf("expected no errors after the fix, got %v", params.Diagnostics)
	}

	// Closing clears everything
	err = c.conn.Notify(context.Background(), protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("didClose: %v", err)
	}
	if params = c.nextDiagnostics(t); len(params.Diagnostics) != 0 {
		t.Errorf("expected cleared diagnostics, got %v", params.Diagnostics)
	}
}

func TestServer_HoverCompletionSymbols(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()
	uri := protocol.DocumentURI("file:///workspace/game.json")

	c.open(t, uri, validProject)
	c.nextDiagnostics(t)

	doc := protocol.TextDocumentIdentifier{URI: uri}

	var hover protocol.Hover
	position := positionAt(validProject, strings.Index(validProject, "SetX")+1)
	if _, err := c.conn.Call(ctx, protocol.MethodTextDocumentHover, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{TextDocument: doc, Position: position},
	}, &hover); err != nil {
		t.Fatalf("hover: %v", err)
	}
	if hover.Contents.Kind != protocol.Markdown || !strings.Contains(hover.Contents.Value, "SetX") {
		t.Errorf("unexpected hover %+v", hover.Contents)
	}

	hover = protocol.Hover{}
	position = positionAt(validProject, strings.Index(validProject, `"Player"`)+2)
	if _, err := c.conn.Call(ctx, protocol.MethodTextDocumentHover, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{TextDocument: doc, Position: position},
	}, &hover); err != nil {
		t.Fatalf("hover: %v", err)
	}
	if !strings.Contains(hover.Contents.Value, "object of type Sprite") {
		t.Errorf("unexpected object hover %+v", hover.Contents)
	}

	var list protocol.CompletionList
	if _, err := c.conn.Call(ctx, protocol.MethodTextDocumentCompletion, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{TextDocument: doc},
	}, &list); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if len(list.Items) == 0 || list.Items[0].Label != "Player" {
		t.Errorf("expected project objects first, got %d item(s)", len(list.Items))
	}

	var symbols []protocol.DocumentSymbol
	if _, err := c.conn.Call(ctx, protocol.MethodTextDocumentDocumentSymbol, &protocol.DocumentSymbolParams{
		TextDocument: doc,
	}, &symbols); err != nil {
		t.Fatalf("documentSymbol: %v", err)
	}
	if len(symbols) != 2 || symbols[0].Name != "Level" {
		t.Errorf("unexpected symbols %+v", symbols)
	}
}

func TestServer_UnknownMethod(t *testing.T) {
	c := startServer(t)

	_, err := c.conn.Call(context.Background(), protocol.MethodTextDocumentDefinition, &protocol.DefinitionParams{}, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported method")
	}
}

func TestServer_ShutdownExit(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	if _, err := c.conn.Call(ctx, protocol.MethodShutdown, nil, nil); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := c.conn.Notify(ctx, protocol.MethodExit, nil); err != nil {
		t.Fatalf("exit: %v", err)
	}

	select {
	case err := <-c.serverErr:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after exit")
	}
}
