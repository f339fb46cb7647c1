// Package bridge carries messages between a panel and the backing process
// and implements the project scaffolding protocol on top of them.
package bridge

import "encoding/json"

// Command names a message in either direction.
type Command string

// Inbound commands, sent by the panel.
const (
	CommandInit             Command = "init"
	CommandProjectType      Command = "projectType"
	CommandCreateProject    Command = "createProject"
	CommandOpenFolderDialog Command = "openFolderDialog"
	CommandGetConfig        Command = "getConfig"
	CommandSaveConfig       Command = "saveConfig"
)

// Outbound commands, sent to the panel. init and projectType are also
// pushed outbound to prime the panel.
const (
	CommandTmpls       Command = "tmpls"
	CommandFolder      Command = "folder"
	CommandCreated     Command = "created"
	CommandConfig      Command = "config"
	CommandConfigSaved Command = "configSaved"
	CommandError       Command = "error"
)

// Message is the JSON envelope exchanged with a panel.
type Message struct {
	Command Command         `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// InitData is the payload of the outbound init message.
type InitData struct {
	ProjectPath  string   `json:"projectPath"`
	ProjectTypes []string `json:"projectTypes"`
}

// CreatedData is the payload of the outbound created message.
type CreatedData struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
