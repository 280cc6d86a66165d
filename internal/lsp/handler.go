// Package lsp serves strictivars diagnostics and code actions to editors
// over the Language Server Protocol.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"strictivars/grammar"
	"strictivars/internal/instrument"
)

var log = commonlog.GetLogger("strictivars.lsp")

type document struct {
	text   string
	result *instrument.Result
}

// Handler keeps open documents in memory and re-instruments them on every
// change.
type Handler struct {
	mu      sync.RWMutex
	docs    map[protocol.DocumentUri]*document
	options instrument.Options
}

func NewHandler(opts ...instrument.Option) *Handler {
	return &Handler{
		docs:    make(map[protocol.DocumentUri]*document),
		options: opts,
	}
}

// Protocol wires the handler's methods into a glsp protocol handler.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentCodeAction:         h.TextDocumentCodeAction,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{
					protocol.CodeActionKindQuickFix,
					protocol.CodeActionKindSource,
				},
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name: "strictivars",
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange expects full-document sync, the only kind this
// server advertises. The last whole-text change wins.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	text, ok := "", false
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, ok = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text, ok = c.Text, true
			}
		}
	}
	if !ok {
		return fmt.Errorf("no full-text change for %s", params.TextDocument.URI)
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	h.mu.Lock()
	delete(h.docs, uri)
	h.mu.Unlock()

	publish(ctx, uri, []protocol.Diagnostic{})
	return nil
}

func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, ok := h.document(params.TextDocument.URI)
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(collectSemanticTokens(doc.result))}, nil
}

// Document returns the latest instrumentation result for uri.
func (h *Handler) Document(uri protocol.DocumentUri) (*instrument.Result, bool) {
	doc, ok := h.document(uri)
	if !ok {
		return nil, false
	}
	return doc.result, true
}

func (h *Handler) document(uri protocol.DocumentUri) (*document, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	doc, ok := h.docs[uri]
	return doc, ok
}

func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}
	result, err := instrument.Process(path, text, h.options...)
	if err != nil {
		return fmt.Errorf("instrument %s: %w", uri, err)
	}

	h.mu.Lock()
	h.docs[uri] = &document{text: text, result: result}
	h.mu.Unlock()

	publish(ctx, uri, DocumentDiagnostics(result))
	return nil
}

// TextDocumentCodeAction offers the full guard rewrite for the document, and
// for unassigned fields in the requested range a spelling fix and an ignore
// directive.
func (h *Handler) TextDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI
	doc, ok := h.document(uri)
	if !ok {
		return []protocol.CodeAction{}, nil
	}
	text := doc.text
	actions := []protocol.CodeAction{}

	if len(doc.result.Annotations) > 0 {
		edits := make([]protocol.TextEdit, 0, len(doc.result.Annotations))
		for _, a := range doc.result.Annotations {
			edits = append(edits, protocol.TextEdit{Range: rangeOf(text, a.Offset, a.Offset), NewText: a.Text})
		}
		actions = append(actions, protocol.CodeAction{
			Title: "Insert strict ivar guards",
			Kind:  ptrKind(protocol.CodeActionKindSource),
			Edit:  &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits}},
		})
	}

	start, end := offsetAt(text, params.Range.Start), offsetAt(text, params.Range.End)
	ignored := make(map[string]bool)
	for _, finding := range instrument.Analyze(doc.result) {
		if finding.End.Offset < start || finding.Position.Offset > end {
			continue
		}
		r := rangeOf(text, finding.Position.Offset, finding.End.Offset)
		for i, suggestion := range finding.Suggestions {
			actions = append(actions, protocol.CodeAction{
				Title:       fmt.Sprintf("Change '%s' to '%s'", finding.Name, suggestion),
				Kind:        ptrKind(protocol.CodeActionKindQuickFix),
				IsPreferred: ptrBool(i == 0),
				Edit: &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					uri: {{Range: r, NewText: suggestion}},
				}},
			})
		}
		if ignored[finding.Name] {
			continue
		}
		ignored[finding.Name] = true
		directive := grammar.IgnoreDirective(finding.Name).String() + "\n"
		actions = append(actions, protocol.CodeAction{
			Title: fmt.Sprintf("Never guard '%s' in this file", finding.Name),
			Kind:  ptrKind(protocol.CodeActionKindQuickFix),
			Edit: &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: {{Range: rangeOf(text, 0, 0), NewText: directive}},
			}},
		})
	}
	return actions, nil
}

func publish(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// uriToPath converts a file URI to a platform-local path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	// "/C:/x" on Windows
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func ptrKind(k protocol.CodeActionKind) *protocol.CodeActionKind {
	return &k
}
