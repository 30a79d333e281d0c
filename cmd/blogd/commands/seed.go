package commands

import (
	"github.com/spf13/cobra"

	"github.com/blogsolution/blog-service/internal/core/service"
)

// seedCmd runs the role and admin bootstrap without starting the server.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the Admin and User roles and the configured admin account",
	Long: `Seed the Admin and User roles and, when ADMIN_EMAIL is set, an admin
account. Running it again changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := environment(ctx)
		if err != nil {
			return err
		}
		st, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		return service.NewBootstrapper(st.Users, st.Roles, cfg.Admin.Email, cfg.Admin.Password, log).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
