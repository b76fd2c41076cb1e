package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dbhandler/handler"
)

// instanceConfig maps active instance names (e.g. db2.sample) to the
// connection data of their config file section.
var instanceConfig = make(map[string]handler.ConnectionData)

// setupEnv reads the config file and collects the connection data of all
// active instances.
func setupEnv(cfg string) error {
	viper.SetConfigFile(cfg)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return err
	}

	// read common config parameters
	passwordStoreFile = viper.GetString("Passwordstore")
	if passwordStoreFile == "" {
		return errors.New("the Passwordstore parameter isn't configured")
	}
	passwordStoreKeyFile = viper.GetString("Passwordstorekey")
	if passwordStoreKeyFile == "" {
		return errors.New("the Passwordstorekey parameter isn't configured")
	}

	// read DBMS instance config parameters
	for _, kind := range handler.Kinds() {
		sections := viper.GetStringMapString(kind) // all config instances (instance1, instance2, ...) assigned to a DBMS kind
		for k := range sections {
			instance := kind + "." + k // e.g. db2.sample
			if sub := viper.Sub(instance); sub != nil && sub.GetString("active") == "1" {
				instanceConfig[instance] = connectionData(instance)
			}
		}
	}

	return nil
}

// connectionData flattens an instance config section into connection
// parameters. The active flag is control data, not a connection parameter.
func connectionData(instance string) handler.ConnectionData {
	conn := handler.ConnectionData{}
	for k, v := range viper.GetStringMapString(instance) {
		if k == "active" {
			continue
		}
		conn[k] = v
	}
	return conn
}

// newHandler builds the handler for a configured instance. The password
// comes from the password store, never from the config file.
func newHandler(instance string) (handler.Handler, error) {
	conn, ok := instanceConfig[instance]
	if !ok {
		return nil, fmt.Errorf("instance '%s' doesn't exist in the config file", instance)
	}
	kind, _, _ := strings.Cut(instance, ".")
	data := handler.ConnectionData{}
	for k, v := range conn {
		data[k] = v
	}
	if password, ok := instancePassword[instance]; ok {
		data["password"] = password
	}
	return handler.New(kind, instance, data)
}
