package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"occupancy/internal/camerafile"
	"occupancy/internal/model"
	"occupancy/internal/repository/sqlite"
)

func main() {
	file := flag.String("file", "camera_config.json", "Camera configuration file (JSON or YAML)")
	dbPath := flag.String("db", "data/occupancy.db", "Database path")
	flag.Parse()

	fmt.Printf("Importing cameras from %s into database %s\n", *file, *dbPath)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	cfgs, err := camerafile.Decode(data)
	if err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}
	if len(cfgs) == 0 {
		fmt.Println("No cameras found to import")
		return
	}

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	cameras := make([]model.Camera, 0, len(cfgs))
	for _, c := range cfgs {
		cameras = append(cameras, model.Camera{IP: c.IP, Username: c.Username, Password: c.Password})
	}

	stored, err := sqlite.NewCameraRepository(db).ReplaceAll(cameras)
	if err != nil {
		log.Fatalf("Failed to store cameras: %v", err)
	}

	fmt.Printf("✅ Successfully imported %d cameras\n", len(stored))
	fmt.Printf("\n📊 Cameras:\n")
	for _, cam := range stored {
		fmt.Printf("   %d: %s (%s)\n", cam.Position, cam.IP, cam.Username)
	}
}
