package models

import "strconv"

type ServerRole string

const (
	ServerRolePrimary   ServerRole = "primary"
	ServerRoleSecondary ServerRole = "secondary"
)

type ConnectionStatus string

const (
	ConnectionOnline  ConnectionStatus = "online"
	ConnectionOffline ConnectionStatus = "offline"
)

// ServerDescriptor describes one document-store server, refreshed on demand
// by probing. Exactly one server holds the primary role at a time; it is the
// server the active EngineConfig points at.
type ServerDescriptor struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Host        string             `json:"host"`
	Port        int                `json:"port"`
	Database    string             `json:"database"`
	Role        ServerRole         `json:"role"`
	Status      ConnectionStatus   `json:"connectionStatus"`
	Collections CompletenessReport `json:"collections"`
}

func (s ServerDescriptor) URI() string {
	if s.Port == 0 {
		return "mongodb://" + s.Host
	}
	return "mongodb://" + s.Host + ":" + strconv.Itoa(s.Port)
}

// CompletenessReport is the result of checking a target for the required
// collection set. Completeness is structural presence, not population: a
// present collection with zero documents still counts.
type CompletenessReport struct {
	Total        int      `json:"total"`
	PresentNames []string `json:"presentNames"`
	MissingNames []string `json:"missingNames"`
	Complete     bool     `json:"complete"`
}
