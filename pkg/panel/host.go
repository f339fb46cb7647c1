package panel

// PanelOptions describes a panel to create.
type PanelOptions struct {
	ViewType string
	Title    string
	// ResourceRoots are the only directories the panel may load resources from.
	ResourceRoots []string
	EnableScripts bool
}

// ViewState is reported when a panel's visibility changes.
type ViewState struct {
	Visible bool
	Active  bool
}

// Disposable releases a subscription or resource.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to Disposable.
type DisposableFunc func()

// Dispose calls f.
func (f DisposableFunc) Dispose() {
	f()
}

// Panel is one UI surface provided by a Host.
type Panel interface {
	Reveal()
	SetHTML(html string)
	PostMessage(msg interface{}) error
	ShowError(msg string)
	// CSPSource is the origin allowed by the panel's content security policy.
	CSPSource() string
	// AsResourceURI maps a path relative to the resource root to a loadable URI.
	AsResourceURI(rel string) (string, error)
	Visible() bool
	Dispose()

	OnDidDispose(fn func()) Disposable
	OnDidChangeViewState(fn func(ViewState)) Disposable
	OnDidReceiveMessage(fn func(raw []byte)) Disposable
}

// Host creates panels.
type Host interface {
	CreatePanel(opts PanelOptions) (Panel, error)
}
