/*
 * Copyright (c) 2026, VaultSync Software (https://vaultsync.io).
 *
 * VaultSync Software licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/vaultsync/profile-sync-service/internal/system/config"
	"github.com/vaultsync/profile-sync-service/internal/system/constants"
	"github.com/vaultsync/profile-sync-service/internal/system/database/migrations"
	dbprovider "github.com/vaultsync/profile-sync-service/internal/system/database/provider"
	"github.com/vaultsync/profile-sync-service/internal/system/log"
	"github.com/vaultsync/profile-sync-service/internal/system/managers"
)

const configFile = "config/deployment.yaml"

func main() {

	pssHome := getPSSHome()

	envFiles, _ := filepath.Glob("config/*.env")
	_ = godotenv.Load(envFiles...)

	pssConfig, err := config.LoadConfig(pssHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitializePSSRuntime(pssHome, pssConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(pssConfig.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	if err := runMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", pssConfig.Addr.Host, pssConfig.Addr.Port)
	mux := enableCORS(initMultiplexer())

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err))
	}
	logger.Info("Profile sync service started", log.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Error("Failed to serve requests", log.Error(err))
	}
}

func runMigrations() error {

	db, err := dbprovider.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return migrations.RunMigrations(context.Background(), db)
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getPSSHome() string {

	projectHome := ""
	projectHomeFlag := flag.String("pssHome", "", "Path to the profile sync service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", dirErr)
		}
		projectHome = dir
	}

	return projectHome
}
