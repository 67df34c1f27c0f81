package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// GetGmailClient retrieves a token, saves the token, then returns the
// authenticated HTTP client. Returns nil when no credentials file exists,
// which disables the email watcher rather than failing startup.
func GetGmailClient(credentialsFile, tokenFile string) *http.Client {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		log.Printf("⚠️ Gmail credentials unavailable (%v), email watcher will be disabled", err)
		return nil
	}

	// READONLY access is all the status scanner needs
	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		log.Printf("⚠️ Unable to parse Gmail credentials: %v", err)
		return nil
	}

	return getClient(config, tokenFile)
}

// getClient retrieves a token from a local file or prompts the user to login.
func getClient(config *oauth2.Config, tokenFile string) *http.Client {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok = getTokenFromWeb(config)
		if tok == nil {
			return nil
		}
		saveToken(tokenFile, tok)
	}
	return config.Client(context.Background(), tok)
}

// getTokenFromWeb requests a token from the web, then returns the retrieved token.
func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("\n---------------------------------------------------------\n")
	fmt.Printf("OPEN THIS LINK TO AUTHORIZE GMAIL ACCESS:\n%v\n", authURL)
	fmt.Printf("---------------------------------------------------------\n")
	fmt.Printf("Paste the authorization code here: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Printf("⚠️ Unable to read authorization code: %v", err)
		return nil
	}

	tok, err := config.Exchange(context.Background(), authCode)
	if err != nil {
		log.Printf("⚠️ Unable to retrieve token from web: %v", err)
		return nil
	}
	return tok
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path.
func saveToken(path string, token *oauth2.Token) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Printf("⚠️ Unable to cache oauth token: %v", err)
		return
	}
	defer f.Close()
	_ = json.NewEncoder(f).Encode(token)
}
