package mqtt

import (
	"fmt"
	"strings"
)

// defaultPrefix is the root of the device management topic tree.
const defaultPrefix = "devmgmt"

// Topics builds topic strings for the device management topic tree.
// The zero value uses the default prefix.
//
// Layout:
//
//	devmgmt/{tenant}/template/{id}/event   lifecycle events per template
//	devmgmt/system/status                  service online/offline status
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return defaultPrefix
	}
	return t.Prefix
}

// TemplateEvent returns the lifecycle event topic for a single template.
func (t Topics) TemplateEvent(tenant string, templateID int64) string {
	return fmt.Sprintf("%s/%s/template/%d/event", t.prefix(), tenant, templateID)
}

// AllTemplateEvents returns a wildcard filter matching lifecycle events
// for every template of every tenant.
func (t Topics) AllTemplateEvents() string {
	return t.prefix() + "/+/template/+/event"
}

// SystemStatus returns the service status topic.
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}

// TenantFromEventTopic extracts the tenant segment from a template event
// topic. The second return value is false if the topic does not match
// the event layout.
func (t Topics) TenantFromEventTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 5 || parts[0] != t.prefix() || parts[2] != "template" || parts[4] != "event" {
		return "", false
	}
	return parts[1], true
}
