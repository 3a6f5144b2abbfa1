package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/proveedores/liquidaciones/config"
	"github.com/proveedores/liquidaciones/database"
	"github.com/proveedores/liquidaciones/logger"
	"github.com/proveedores/liquidaciones/util/crypto"
	"github.com/proveedores/liquidaciones/web"
	"github.com/proveedores/liquidaciones/web/service"

	"github.com/spf13/cobra"
)

// newSource builds the Sheets source. When the client cannot be created the
// panel still runs and every load reports err.
func newSource(ctx context.Context, cfg config.SourceConfig) database.Source {
	source, err := database.NewSheetsSource(ctx, cfg)
	if err != nil {
		logger.Error("create spreadsheet source failed:", err)
		return &database.StaticSource{Err: err}
	}
	return source
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	level, err := logger.LevelFromConfig(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
	defer logger.CloseLogger()

	cfg := config.GetSourceConfig()
	if !cfg.HasCredentials() {
		logger.Warning("no Google credentials configured, the spreadsheet will not load")
	}

	server := web.NewServer(newSource(context.Background(), cfg), cfg)
	if err = server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			if err := config.LoadEnv(); err != nil {
				logger.Warning("reload env err:", err)
			}
			cfg = config.GetSourceConfig()
			server = web.NewServer(newSource(context.Background(), cfg), cfg)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func mask(value string) string {
	if value == "" {
		return "(empty)"
	}
	return "********"
}

func showSetting() {
	cfg := config.GetSourceConfig()
	fmt.Println("current panel settings as follows:")
	fmt.Println("listen:", config.GetListen())
	fmt.Println("port:", config.GetPort())
	fmt.Println("basePath:", config.GetBasePath())
	fmt.Println("domain:", config.GetDomain())
	fmt.Println("logLevel:", config.GetLogLevel())
	fmt.Println("sessionSecret:", mask(config.GetSessionSecret()))
	fmt.Println("sessionMaxAge (minutes):", config.GetSessionMaxAge())
	fmt.Println("loginLimit (per minute):", config.GetLoginLimit())
	fmt.Println("spreadsheet:", cfg.SpreadsheetKey)
	fmt.Println("sheets:", cfg.RecordsSheet, cfg.UsersSheet)
	fmt.Println("credentialsFile:", cfg.CredentialsFile)
	fmt.Println("credentialsJSON:", mask(cfg.CredentialsJSON))
	fmt.Println("cacheTTL:", cfg.CacheTTL)
	fmt.Println("fetchTimeout:", cfg.FetchTimeout)
}

func hashPassword(password string) {
	if password == "" {
		fmt.Println("password is empty")
		os.Exit(1)
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		fmt.Println("hash password failed:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func checkSource() {
	cfg := config.GetSourceConfig()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer cancel()

	source, err := database.NewSheetsSource(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	records, users, err := source.Fetch(ctx)
	if err != nil {
		fmt.Println("fetch failed:", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d rows, %d columns\n", cfg.RecordsSheet, records.Len(), len(records.Columns))
	fmt.Printf("%s: %d rows\n", cfg.UsersSheet, users.Len())
	userService := service.UserService{}
	if n := userService.CountPlaintextPasswords(users); n > 0 {
		fmt.Printf("warning: %d users have plaintext passwords\n", n)
	}
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Println("load .env failed:", err)
	}

	var rootCmd = &cobra.Command{
		Use:   config.GetName(),
		Short: "Supplier settlements panel",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Inspect settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var hashCmd = &cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash for the Contraseña column",
		Run: func(cmd *cobra.Command, args []string) {
			password, _ := cmd.Flags().GetString("password")
			hashPassword(password)
		},
	}
	hashCmd.Flags().String("password", "", "password to hash")

	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Fetch the spreadsheet once and print what was read",
		Run: func(cmd *cobra.Command, args []string) {
			checkSource()
		},
	}

	settingCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runCmd, settingCmd, hashCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
