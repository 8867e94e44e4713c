package config

import (
	"fmt"

	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// InitSupabase initializes the Supabase client used for Auth and Storage.
func InitSupabase(s Settings) (*supa.Client, error) {
	client, err := supa.NewClient(s.SupabaseURL, s.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing Supabase client: %w", err)
	}

	Logger().Info("Supabase client initialized successfully.")
	return client, nil
}

// NewPostgrestClient builds a PostgREST client against the project's REST
// endpoint using the service key.
func NewPostgrestClient(s Settings) (*postgrest.Client, error) {
	if !s.SupabaseEnabled() {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set in environment variables")
	}

	client := postgrest.NewClient(s.SupabaseURL+"/rest/v1", "public", map[string]string{
		"apikey":        s.SupabaseKey,
		"Authorization": fmt.Sprintf("Bearer %s", s.SupabaseKey),
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to initialize PostgREST client: %w", client.ClientError)
	}
	return client, nil
}
