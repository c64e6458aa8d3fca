// Package dbusagent exposes the enrollee session state over D-Bus so
// management clients can follow a registration without scraping logs,
// mirroring the SimpleConfiguration surface of the wireless daemon this
// protocol core descends from.
package dbusagent

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/dantte-lp/gowsc/internal/wsc"
)

// D-Bus identity of the agent.
const (
	// BusName is the well-known bus name claimed by the daemon.
	BusName = "dev.gowsc"

	// ObjectPath is the enrollee object path.
	ObjectPath dbus.ObjectPath = "/dev/gowsc/Enrollee"

	// Interface is the SimpleConfiguration management interface.
	Interface = "dev.gowsc.SimpleConfiguration1"
)

// introXML is the introspection document for the agent object.
const introXML = `
<node>
	<interface name="` + Interface + `">
		<method name="Status">
			<arg direction="out" type="s" name="state"/>
		</method>
		<method name="Credentials">
			<arg direction="out" type="as" name="ssids"/>
		</method>
	</interface>` + introspect.IntrospectDataString + `</node>`

// -------------------------------------------------------------------------
// Agent
// -------------------------------------------------------------------------

// Agent is the exported D-Bus object. State updates arrive from the
// enrollee callbacks; D-Bus calls read them under the lock.
type Agent struct {
	conn   *dbus.Conn
	logger *slog.Logger

	mu    sync.Mutex
	state string
	ssids []string
}

// New connects to the system bus, claims BusName and exports the agent
// object.
func New(logger *slog.Logger) (*Agent, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	a := &Agent{
		conn:   conn,
		logger: logger,
		state:  wsc.StateExpectStart.String(),
	}

	if err := conn.Export(a, ObjectPath, Interface); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("export agent: %w", err)
	}
	if err := conn.Export(introspect.Introspectable(introXML), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("request name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return nil, fmt.Errorf("request name %s: not primary owner (reply %d)", BusName, reply)
	}

	logger.Info("dbus agent ready", slog.String("bus_name", BusName))

	return a, nil
}

// Close releases the bus name and connection.
func (a *Agent) Close() error {
	if _, err := a.conn.ReleaseName(BusName); err != nil {
		a.logger.Warn("release bus name", slog.String("error", err.Error()))
	}
	return a.conn.Close()
}

// -------------------------------------------------------------------------
// Enrollee hooks
// -------------------------------------------------------------------------

// StateChanged records a session state transition. Wired into the
// enrollee's metrics pipeline by the daemon.
func (a *Agent) StateChanged(_, to string) {
	a.mu.Lock()
	a.state = to
	a.mu.Unlock()
}

// CredentialsReceived records the SSIDs extracted from M8. Network keys
// deliberately never cross the bus.
func (a *Agent) CredentialsReceived(creds []wsc.Credential) {
	ssids := make([]string, 0, len(creds))
	for i := range creds {
		ssids = append(ssids, string(creds[i].SSID))
	}

	a.mu.Lock()
	a.ssids = ssids
	a.mu.Unlock()
}

// -------------------------------------------------------------------------
// D-Bus methods
// -------------------------------------------------------------------------

// Status returns the current enrollee state name.
func (a *Agent) Status() (string, *dbus.Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, nil
}

// Credentials returns the SSIDs of the provisioned networks, empty
// until the registration finishes.
func (a *Agent) Credentials() ([]string, *dbus.Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.ssids...), nil
}
