package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// retrieveCredentials usa usuario/clave del entorno y, si faltan, el secreto
// indicado en AWS Secrets Manager.
func retrieveCredentials(username, password, secretID string) (string, string, error) {
	if username != "" && password != "" {
		return username, password, nil
	}
	if secretID == "" {
		return "", "", errors.New("faltan DB_USERNAME/DB_PASSWORD y DB_SECRET_ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", "", fmt.Errorf("config aws: %w", err)
	}
	secrets := secretsmanager.NewFromConfig(cfg)

	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", fmt.Errorf("leer secreto %s: %w", secretID, err)
	}
	if result.SecretString == nil {
		return "", "", fmt.Errorf("secreto %s sin contenido", secretID)
	}
	return parseCredentials([]byte(*result.SecretString))
}

func parseCredentials(raw []byte) (string, string, error) {
	var secret Credentials
	if err := json.Unmarshal(raw, &secret); err != nil {
		return "", "", fmt.Errorf("secreto inválido: %w", err)
	}
	if secret.Username == "" || secret.Password == "" {
		return "", "", errors.New("secreto sin username/password")
	}
	return secret.Username, secret.Password, nil
}
