package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	nivel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		nivel = logrus.InfoLevel
	}
	logg.SetLevel(nivel)
}

// LogError registra un error con el módulo y la función donde ocurrió.
func LogError(logger *logrus.Logger, modulo string, funcion string, contexto string, datos any, err error) {
	campos := logrus.Fields{
		"modulo":   modulo,
		"funcion":  funcion,
		"contexto": contexto,
	}
	if datos != nil {
		campos["datos"] = datos
	}
	logger.WithFields(campos).Error(err.Error())
}
