package main

import (
	"fmt"
	"os"
	"strings"

	"fest-judging-system/cmd/server"
	"fest-judging-system/config"
	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/model"
	"fest-judging-system/tools"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "fest-judging-system",
		Usage: "school cultural fest registration, judging and results",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP server",
				Action: func(c *cli.Context) error {
					server.Init()
					server.Run()
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "create or reset an admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createAdmin,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createAdmin(c *cli.Context) error {
	password := c.String("password")
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	config.Init()
	database.Init()

	hash, err := tools.PasswordHash(password)
	if err != nil {
		return err
	}
	email := strings.ToLower(c.String("email"))
	user := model.User{Email: email}
	err = database.DB.Where(model.User{Email: email}).
		Assign(model.User{Password: hash, RoleID: model.RoleAdmin}).
		FirstOrCreate(&user).Error
	if err != nil {
		return err
	}
	fmt.Printf("admin %s ready (id %d)\n", user.Email, user.ID)
	return nil
}
