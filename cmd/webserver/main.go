package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shaneyale2005/webserver"
)

var (
	// CLI flags
	configFlag   string
	portFlag     int
	logLevelFlag string
	logFileFlag  string
	versionFlag  bool

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFlag, "config", "config.yml", "Configuration file to load")
	flag.IntVar(&portFlag, "port", 0, "Port to listen on (overrides configuration)")
	flag.StringVar(&logLevelFlag, "log-level", "info", "Log level: trace, debug, info, warn or error")
	flag.StringVar(&logFileFlag, "log-file", "", "Log file to use (in addition to stdout)")
	flag.BoolVar(&versionFlag, "version", false, "Print version and exit")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	if versionFlag {
		fmt.Println(version)
		return
	}

	logLevel, err := zerolog.ParseLevel(logLevelFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFileFlag != "" {
		if logFileOutput, err := os.OpenFile(logFileFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	config, err := webserver.GetConfig(configFlag)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("filename", configFlag).Msg("Configuration file not found, using defaults")
		} else {
			log.Fatal().Err(err).Str("filename", configFlag).Msg("Cannot read configuration")
		}
	} else {
		log.Info().Str("filename", configFlag).Msg("Configuration loaded")
	}
	if portFlag != 0 {
		config.Port = portFlag
	}

	if config.WorkerThreads > 0 {
		runtime.GOMAXPROCS(config.WorkerThreads)
	}

	phpVersion, err := webserver.DetectPHP()
	switch {
	case errors.Is(err, webserver.ErrPHPExecFailed):
		log.Warn().Msg("No php interpreter found, php files will not be served")
	case err != nil:
		log.Fatal().Err(err).Msg("Cannot probe php interpreter")
	case phpVersion != "":
		log.Info().Str("php_version", phpVersion).Msg("Found php interpreter")
	}

	server, err := webserver.CreateServer(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot create server")
	}

	if config.ManagementAddr != "" {
		go func() {
			log.Info().Str("addr", config.ManagementAddr).Msg("Management API listening")
			if err := http.ListenAndServe(config.ManagementAddr, server.ManagementHandler()); err != nil {
				log.Error().Err(err).Msg("Management API failed")
			}
		}()
	}

	go server.Console(os.Stdin, os.Stdout)

	log.Info().Str("www_root", config.WWWRoot).Int("port", config.Port).Msg("Starting server")
	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	if err := server.Close(); err != nil {
		log.Error().Err(err).Msg("Cannot close access log")
	}
}
