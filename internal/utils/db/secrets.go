package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type credenciales struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// obtenerCredenciales prioriza DB_USERNAME/DB_PASSWORD; si no están,
// busca el secreto en AWS Secrets Manager.
func obtenerCredenciales(secretID string) (string, string, error) {
	usuario := os.Getenv("DB_USERNAME")
	clave := os.Getenv("DB_PASSWORD")
	if usuario != "" && clave != "" {
		return usuario, clave, nil
	}

	if secretID == "" {
		return "", "", fmt.Errorf("db: faltan DB_USERNAME/DB_PASSWORD y no hay DB_SECRET_ID configurado")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return "", "", err
	}
	secrets := secretsmanager.NewFromConfig(cfg)

	result, err := secrets.GetSecretValue(context.TODO(), &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", err
	}

	var secreto credenciales
	if err := json.Unmarshal([]byte(*result.SecretString), &secreto); err != nil {
		return "", "", err
	}

	return secreto.Username, secreto.Password, nil
}
