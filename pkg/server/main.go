/* Copyright 2025 Matcal Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bytes"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/matcal/matcal/pkg/clock"
	"github.com/matcal/matcal/pkg/materials"
	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/assets"
	"github.com/matcal/matcal/pkg/server/buildinfo"
	"github.com/matcal/matcal/pkg/server/config"
	"github.com/matcal/matcal/pkg/server/controllers"
	"github.com/matcal/matcal/pkg/server/database"
	"github.com/matcal/matcal/pkg/server/job"
	"github.com/matcal/matcal/pkg/server/log"
	"github.com/matcal/matcal/pkg/server/realtime"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) *gorm.DB {
	db := database.Open(cfg.DBPath, cfg.DatabaseURL)
	database.InitSchema(db)

	return db
}

func initApp(cfg config.Config) app.App {
	db := initDB(cfg)

	catalog, err := materials.LoadCatalog(bytes.NewReader(assets.MustGetMaterialData()))
	if err != nil {
		panic(errors.Wrap(err, "loading material catalog"))
	}

	return app.App{
		DB:      db,
		Clock:   clock.New(),
		Catalog: catalog,
		Stream:  realtime.NewHub(),
		AppEnv:  cfg.AppEnv,
		WebURL:  cfg.WebURL,
		Port:    cfg.Port,
		DBPath:  cfg.DBPath,
		APIURL:  cfg.SupabaseURL,
		APIKey:  cfg.SupabaseKey,
	}
}

func startCmd(args []string) {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.Usage = func() {
		fmt.Printf(`Usage:
  matcal-server start [flags]

Flags:
`)
		startFlags.PrintDefaults()
	}

	appEnv := startFlags.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := startFlags.String("port", "", "Server port (env: PORT, default: 3000)")
	webURL := startFlags.String("webUrl", "", "Full URL to server without trailing slash (env: WebURL, example: https://example.com)")
	dbPath := startFlags.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: matcal.db)")
	logLevel := startFlags.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	startFlags.Parse(args)

	// a missing .env file is fine; the environment may be set directly
	godotenv.Load()

	cfg, err := config.New(config.Params{
		AppEnv:   *appEnv,
		Port:     *port,
		WebURL:   *webURL,
		DBPath:   *dbPath,
		LogLevel: *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		startFlags.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app := initApp(cfg)
	defer func() {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	scheduler, err := job.Schedule(&app)
	if err != nil {
		panic(errors.Wrap(err, "scheduling background jobs"))
	}
	defer scheduler.Stop()

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		WebRoutes:   controllers.NewWebRoutes(&app, ctl),
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Matcal server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}

func versionCmd() {
	fmt.Printf("matcal-server-%s\n", buildinfo.Version)
}

func rootCmd() {
	fmt.Printf(`Matcal server - material consumption calculator for production

Usage:
  matcal-server [command] [flags]

Available commands:
  start: Start the server (use 'matcal-server start --help' for flags)
  version: Print the version
`)
}

func main() {
	if len(os.Args) < 2 {
		rootCmd()
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "start":
		startCmd(os.Args[2:])
	case "version":
		versionCmd()
	default:
		fmt.Printf("Unknown command %s\n", cmd)
		rootCmd()
		os.Exit(1)
	}
}
