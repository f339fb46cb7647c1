// Package render fills {{token}} placeholders in panel documents.
package render

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"path"
	"regexp"
	"strings"

	"github.com/grovetools/scaffolder/errors"
	"github.com/grovetools/scaffolder/pkg/pathops"
	"github.com/grovetools/scaffolder/pkg/profiling"
)

// Reserved tokens. Any other token names an asset below the resource root.
const (
	TokenCSPSource = "webview.cspSource"
	TokenNonce     = "nonce"
)

const nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NonceLength is the length of generated nonces.
const NonceLength = 32

var placeholderRegex = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)

// AssetResolver maps a path relative to the resource root to a URI the
// panel can load.
type AssetResolver interface {
	AsResourceURI(rel string) (string, error)
}

// AssetResolverFunc adapts a function to AssetResolver.
type AssetResolverFunc func(rel string) (string, error)

// AsResourceURI calls f.
func (f AssetResolverFunc) AsResourceURI(rel string) (string, error) {
	return f(rel)
}

// Renderer substitutes placeholders for one panel session.
type Renderer struct {
	// CSPSource replaces {{webview.cspSource}}.
	CSPSource string
	// Assets resolves every non-reserved token.
	Assets AssetResolver
	// Nonce generates the per-line nonce. Defaults to NewNonce.
	Nonce func() string
}

// RenderLines resolves the placeholders of every line and joins the result
// with newlines. Nothing is returned until every line has been processed.
func (r *Renderer) RenderLines(lines []string) (string, error) {
	out := make([]string, len(lines))
	for i, line := range lines {
		rendered, err := r.renderLine(line)
		if err != nil {
			return "", err
		}
		out[i] = rendered
	}
	return strings.Join(out, "\n"), nil
}

// RenderFile streams the document at path and renders it once the read completes.
func (r *Renderer) RenderFile(ctx context.Context, path string) (string, error) {
	defer profiling.Start("render " + path).Stop()
	lines, err := pathops.ReadLinesSync(ctx, path)
	if err != nil {
		return "", err
	}
	return r.RenderLines(lines)
}

func (r *Renderer) renderLine(line string) (string, error) {
	if !strings.Contains(line, "{{") {
		return line, nil
	}

	var (
		nonce    string
		firstErr error
	)
	rendered := placeholderRegex.ReplaceAllStringFunc(line, func(match string) string {
		if firstErr != nil {
			return match
		}
		token := placeholderRegex.FindStringSubmatch(match)[1]
		switch token {
		case TokenCSPSource:
			return r.CSPSource
		case TokenNonce:
			if nonce == "" {
				nonce = r.newNonce()
			}
			return nonce
		default:
			uri, err := r.resolveAsset(token)
			if err != nil {
				firstErr = err
				return match
			}
			return uri
		}
	})
	if firstErr != nil {
		return "", firstErr
	}
	return rendered, nil
}

func (r *Renderer) resolveAsset(token string) (string, error) {
	if token == "" {
		return "", errors.UnresolvedPlaceholder(token, nil)
	}
	rel := path.Clean(strings.ReplaceAll(token, "\\", "/"))
	if path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.UnresolvedPlaceholder(token, fmt.Errorf("%s escapes the resource root", token))
	}
	if r.Assets == nil {
		return "", errors.UnresolvedPlaceholder(token, fmt.Errorf("no asset resolver"))
	}
	uri, err := r.Assets.AsResourceURI(rel)
	if err != nil {
		return "", errors.UnresolvedPlaceholder(token, err)
	}
	return uri, nil
}

func (r *Renderer) newNonce() string {
	if r.Nonce != nil {
		return r.Nonce()
	}
	return NewNonce()
}

// NewNonce returns a random alphanumeric string of NonceLength characters.
func NewNonce() string {
	max := big.NewInt(int64(len(nonceAlphabet)))
	b := make([]byte, NonceLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		b[i] = nonceAlphabet[n.Int64()]
	}
	return string(b)
}
