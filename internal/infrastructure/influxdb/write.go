package influxdb

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// measurementTemplateEvents records template lifecycle transitions.
const measurementTemplateEvents = "template_events"

// WriteTemplateEvent records a lifecycle event for a template. The
// write is buffered and flushed asynchronously.
func (c *Client) WriteTemplateEvent(tenant, event string, templateID int64, at time.Time) {
	p := influxdb2.NewPoint(
		measurementTemplateEvents,
		map[string]string{
			"tenant": tenant,
			"event":  event,
		},
		map[string]any{
			"template_id": templateID,
		},
		at,
	)
	c.writeAPI.WritePoint(p)
	c.logger.Debug("influxdb point queued",
		"measurement", measurementTemplateEvents,
		"tenant", tenant,
		"event", event,
		"template_id", templateID)
}
