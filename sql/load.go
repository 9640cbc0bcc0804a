package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed points.sql
var pointsSQL string

// Function list for verification
var PointsFunctions = []string{
	"init_points",
	"upsert_point",
	"search_points",
	"select_point",
	"delete_point",
	"count_points",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadPointsSql loads point-related SQL functions
func LoadPointsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, PointsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing points functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(pointsSQL)
	if err != nil {
		return fmt.Errorf("error executing points SQL: %w", err)
	}

	exist, err := checkFunctions(db, PointsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL points functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
