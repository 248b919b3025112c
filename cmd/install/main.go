package main

import (
	"fmt"
	"os"

	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/credentials"
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/installer"
)

func main() {
	fmt.Println("=== GitLab MR MCP Server Installer ===")
	fmt.Println()

	projectRoot, err := installer.GetProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to get project root: %v\n", err)
		os.Exit(1)
	}

	prompter := installer.NewPrompter()
	promptConfig, err := prompter.PromptUser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	binaryConfig, err := installer.GetBinaryConfig(promptConfig.Mode, projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	binaryConfig.AddReadOnlyEnv(promptConfig.ReadOnly)

	token := promptConfig.Token
	if promptConfig.UseKeyring {
		if err := credentials.Store(promptConfig.GitLabURL, token); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("  ✓ Token stored in the OS keyring")
		token = ""
	}

	serverConfig := installer.CreateServerConfig(binaryConfig, promptConfig.GitLabURL, promptConfig.ReadOnly, token)

	environments := prompter.PromptEnvironments()
	paths := installer.GetConfigPaths()

	successCount := 0
	for _, env := range environments {
		fmt.Printf("\nConfiguring %s...\n", env)
		if err := installer.UpdateConfig(env, paths, serverConfig); err != nil {
			fmt.Fprintf(os.Stderr, "  Error configuring %s: %v\n", env, err)
			continue
		}
		fmt.Printf("  ✓ %s configured successfully\n", env)
		successCount++
	}

	fmt.Println()
	if successCount == 0 {
		fmt.Println("No environments were configured successfully.")
		os.Exit(1)
	}

	fmt.Printf("Successfully configured %d environment(s)!\n", successCount)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Restart your development environment(s)")
	fmt.Printf("2. The MCP server will be available as '%s'\n", installer.ServerName)
	if promptConfig.Mode == installer.ModeLocal {
		fmt.Println("3. Make sure the binary exists at:", binaryConfig.LocalPath)
	} else {
		fmt.Printf("3. Make sure the Docker image exists: docker build -t %s .\n", installer.DockerImage)
	}
}
