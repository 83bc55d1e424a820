package main

import (
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/config"
	"github.com/ds124wfegd/WB_L3/editor/internal/appServer"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	cfg.Broker.Brokers = config.GetEnv("KAFKA_BROKERS", cfg.Broker.Brokers)
	cfg.Broker.Topic = config.GetEnv("KAFKA_TOPIC", cfg.Broker.Topic)
	cfg.Broker.GroupID = config.GetEnv("KAFKA_GROUP_ID", cfg.Broker.GroupID)

	appServer.NewProcessor(cfg)
}
