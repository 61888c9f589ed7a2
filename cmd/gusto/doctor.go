package gusto

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Acex619/gusto-food-scanner/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run record cache integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDB(cfg.DBPath, func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cached rows: %d\n", report.Rows)
			fmt.Fprintf(cmd.OutOrStdout(), "Invalid records: %d\n", report.InvalidRecords)
			fmt.Fprintf(cmd.OutOrStdout(), "Bad timestamps: %d\n", report.BadTimestamps)
			fmt.Fprintf(cmd.OutOrStdout(), "Expired rows: %d\n", report.ExpiredRows)
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed rows: %d\n", report.RemovedRows)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, false, time.Now())
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Delete rows that cannot be read back")
}
