package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zqn-cloud/jarvis/internal/profile"
	"github.com/zqn-cloud/jarvis/server"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "jarvis-agent",
	Short: `Natural-language scheduling agent for the Jarvis calendar.`,
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:               viper.GetString("mode"),
			Addr:               viper.GetString("addr"),
			Port:               viper.GetInt("port"),
			Version:            version,
			Timezone:           viper.GetString("timezone"),
			APIBase:            viper.GetString("api-base"),
			APIToken:           viper.GetString("token"),
			OpenAIBaseURL:      viper.GetString("openai-base"),
			OpenAIModel:        viper.GetString("openai-model"),
			OpenWeatherBaseURL: viper.GetString("openweather-base"),
			RateLimitRPS:       viper.GetFloat64("rate-limit-rps"),
			RateLimitBurst:     viper.GetInt("rate-limit-burst"),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("failed to validate profile", "error", err)
			os.Exit(1)
		}
		setupLogger(instanceProfile)

		ctx, cancel := context.WithCancel(context.Background())
		s, err := server.NewServer(ctx, instanceProfile)
		if err != nil {
			cancel()
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM.
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		if err := s.Start(ctx); err != nil {
			cancel()
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", profile.DefaultPort)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", profile.DefaultPort, "port of server")
	rootCmd.PersistentFlags().String("timezone", "", "IANA time zone that defines today (default Asia/Shanghai)")
	rootCmd.PersistentFlags().String("api-base", "", "Jarvis backend API base")
	rootCmd.PersistentFlags().String("token", "", "bearer token for the Jarvis backend")
	rootCmd.PersistentFlags().String("openai-base", "", "OpenAI-compatible API base")
	rootCmd.PersistentFlags().String("openai-model", "", "chat model used for parsing")
	rootCmd.PersistentFlags().String("openweather-base", "", "OpenWeather API base")
	rootCmd.PersistentFlags().Float64("rate-limit-rps", 10, "agent requests per second per client")
	rootCmd.PersistentFlags().Int("rate-limit-burst", 20, "agent request burst per client")

	for _, name := range []string{
		"mode", "addr", "port", "timezone", "api-base", "token",
		"openai-base", "openai-model", "openweather-base",
		"rate-limit-rps", "rate-limit-burst",
	} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("jarvis")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setupLogger installs a text handler in dev and a JSON handler otherwise.
func setupLogger(p *profile.Profile) {
	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("Jarvis agent %s started successfully!\n", p.Version)
	if p.IsDev() {
		fmt.Fprintf(os.Stderr, "Development mode is enabled\n")
		fmt.Fprintf(os.Stderr, "Profile: %s\n", p.String())
	}
	fmt.Printf("Server running on port %d\n", p.Port)
	fmt.Printf("Health check: http://%s:%d/health\n", hostOrLocalhost(p.Addr), p.Port)
}

func hostOrLocalhost(addr string) string {
	if addr == "" {
		return "localhost"
	}
	return addr
}

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
