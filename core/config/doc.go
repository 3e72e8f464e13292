// Package config provides configuration management for permit-sync.
//
// It loads an optional .env file with godotenv and then reads environment
// variables through Viper. Defaults come from the `default` struct tags of each
// section, and nested keys map to variables by replacing dots with
// underscores (db.user -> DB_USER, target.table -> TARGET_TABLE).
//
// # Configuration Structure
//
//   - Database (DB_*): host, port, user, password, name, driver, ssl mode
//   - Source (SOURCE_*): data URL, delimiter, encoding, output path
//   - Target (TARGET_*): table, local column policy, batch size
//   - Server (SERVER_*): HTTP port and API key
//   - Storage (STORAGE_*): S3/MinIO credentials for s3:// sources
//   - Log (LOG_*): level and format
//
// POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB and DATA_URL are still read
// when their DB_* and SOURCE_* counterparts are unset.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Target.Table)
package config
