package commands

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/dantte-lp/gowsc/internal/dbusagent"
)

// statusCmd reports the enrollee session state and, once the
// registration finishes, the provisioned SSIDs.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the enrollee session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := dbus.ConnectSystemBus()
			if err != nil {
				return fmt.Errorf("connect system bus: %w", err)
			}
			defer conn.Close()

			obj := conn.Object(dbusagent.BusName, dbusagent.ObjectPath)

			var state string
			if err := obj.Call(dbusagent.Interface+".Status", 0).Store(&state); err != nil {
				return fmt.Errorf("query status: %w", err)
			}

			var ssids []string
			if err := obj.Call(dbusagent.Interface+".Credentials", 0).Store(&ssids); err != nil {
				return fmt.Errorf("query credentials: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "State:", state)
			for _, ssid := range ssids {
				fmt.Fprintln(cmd.OutOrStdout(), "Network:", ssid)
			}

			return nil
		},
	}
}
