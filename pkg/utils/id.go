package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSessionID gera um identificador opaco para sessões de login
func GenerateSessionID() (string, error) {
	return gonanoid.Generate(characters, 21)
}

// GenerateID gera um identificador curto para uso geral
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}
