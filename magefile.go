//go:build mage
// +build mage

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	appName = "fintrack-backend"
	cliName = "fintrack-cli"
	distDir = "dist"
)

// Build compiles the server and CLI into dist/ next to a copy of config.yaml.
func Build() error {
	mg.Deps(InstallDeps)
	fmt.Println("Building...")

	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return err
	}

	if err := copyConfig(); err != nil {
		return err
	}

	if err := sh.RunV("go", "build", "-o", filepath.Join(distDir, appName), "./cmd/server"); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(distDir, cliName), "./cmd/cli")
}

func copyConfig() error {
	fmt.Println("Copying config file...")
	src, err := os.Open("config.yaml")
	if err != nil {
		return fmt.Errorf("error opening config.yaml: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(distDir, "config.yaml"))
	if err != nil {
		return fmt.Errorf("error creating dist config.yaml: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("error copying config file: %w", err)
	}
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Run starts the server with the local config.
func Run() error {
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func Install() error {
	mg.Deps(Build)
	fmt.Println("Installing...")
	return os.Rename(filepath.Join(distDir, appName), "/usr/bin/"+appName)
}

func InstallDeps() error {
	fmt.Println("Installing Deps...")
	return sh.Run("go", "mod", "download")
}

func Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(distDir)
}
