package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	passwordStoreFile    string
	passwordStoreKeyFile string
	// map to store instances and their password
	instancePassword = make(map[string]string)
)

func passwordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "manage the password store",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create the password store based on the instances of the config file",
				Action: func(ctx *cli.Context) error {
					if err := setupEnv(ctx.String("config")); err != nil {
						return err
					}
					return createStore()
				},
			},
			passwordInstanceCommand("add", "add an instance and its password to the password store", addInstance),
			passwordInstanceCommand("update", "update the password of an instance in the password store", updateInstance),
			passwordInstanceCommand("delete", "delete an instance and its password from the password store", deleteInstance),
			{
				Name:  "show",
				Usage: "show all instances stored in the password store",
				Action: func(ctx *cli.Context) error {
					if err := setupEnv(ctx.String("config")); err != nil {
						return err
					}
					return showInstance()
				},
			},
		},
	}
}

func passwordInstanceCommand(name, usage string, action func(string) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{instanceFlag()},
		Action: func(ctx *cli.Context) error {
			instance := ctx.String("instance")
			if instance == "" {
				return errors.New("the instance command option '-i <instance name>' is required")
			}
			if err := setupEnv(ctx.String("config")); err != nil {
				return err
			}
			return action(instance)
		},
	}
}

// readSecretKey reads the secret key from the password store key file into memory.
func readSecretKey() ([]byte, error) {
	encodedSecretKey, err := os.ReadFile(passwordStoreKeyFile)
	if err != nil {
		return nil, err
	}
	return decodeBase64(strings.TrimSpace(string(encodedSecretKey)))
}

// writePasswordStore writes AES encrypted password store records into the
// password store, one per instance.
func writePasswordStore(flags int) error {
	f, err := os.OpenFile(passwordStoreFile, flags, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	secretKey, err := readSecretKey()
	if err != nil {
		return err
	}
	for instance, password := range instancePassword {
		record, err := encryptAES(secretKey, instance+":"+password)
		if err != nil {
			return err
		}
		if _, err := f.Write([]byte(record + "\n")); err != nil {
			return err
		}
	}
	return nil
}

// readPasswordStore reads the AES encrypted password store records and
// keeps them unencrypted in the instance password map.
func readPasswordStore() error {
	if _, err := os.Stat(passwordStoreFile); os.IsNotExist(err) {
		return errors.New("the password store doesn't exist - create it with 'password create'")
	}
	f, err := os.OpenFile(passwordStoreFile, os.O_RDONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	secretKey, err := readSecretKey()
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		record, err := decryptAES(secretKey, scanner.Text())
		if err != nil {
			return err
		}
		instance, password, _ := strings.Cut(record, ":")
		instancePassword[instance] = password
	}
	return scanner.Err()
}

// createStore initializes the password store based on the configured and
// activated instances found in the config file.
func createStore() error {
	if _, err := os.Stat(passwordStoreKeyFile); os.IsNotExist(err) {
		if err := createSecretKey(); err != nil {
			return err
		}
	}

	for instance := range instanceConfig {
		password, err := promptPassword(fmt.Sprintf("Enter password for instance %s: ", instance))
		if err != nil {
			return err
		}
		instancePassword[instance] = password
	}

	return writePasswordStore(os.O_WRONLY | os.O_CREATE | os.O_TRUNC)
}

// createSecretKey creates the secret key and stores it in the secret key file.
func createSecretKey() error {
	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		return err
	}
	// secret key length: 32 byte
	secretKey := hex.EncodeToString(key)
	return os.WriteFile(passwordStoreKeyFile, []byte(encodeBase64([]byte(secretKey))), 0600)
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// addInstance adds a dedicated entry to the password store.
func addInstance(instance string) error {
	if err := readPasswordStore(); err != nil {
		return err
	}
	if _, ok := instancePassword[instance]; ok {
		return errors.New("the instance already exists in the password store")
	}

	password, err := promptPassword(fmt.Sprintf("Enter password for instance %s: ", instance))
	if err != nil {
		return err
	}
	instancePassword[instance] = password

	return writePasswordStore(os.O_WRONLY | os.O_TRUNC)
}

// updateInstance updates a dedicated entry in the password store.
func updateInstance(instance string) error {
	if err := readPasswordStore(); err != nil {
		return err
	}
	if _, ok := instancePassword[instance]; !ok {
		return errors.New("the instance doesn't exist in the password store")
	}

	password, err := promptPassword(fmt.Sprintf("Enter new password for instance %s: ", instance))
	if err != nil {
		return err
	}
	instancePassword[instance] = password

	return writePasswordStore(os.O_WRONLY | os.O_TRUNC)
}

// deleteInstance deletes a dedicated entry from the password store.
func deleteInstance(instance string) error {
	if err := readPasswordStore(); err != nil {
		return err
	}
	if _, ok := instancePassword[instance]; !ok {
		return errors.New("the instance doesn't exist in the password store")
	}
	delete(instancePassword, instance)

	return writePasswordStore(os.O_WRONLY | os.O_TRUNC)
}

// showInstance lists all instances (without the password) found in the password store.
func showInstance() error {
	if err := readPasswordStore(); err != nil {
		return err
	}
	for instance := range instancePassword {
		fmt.Println(instance)
	}
	return nil
}
