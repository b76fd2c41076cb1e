package main

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

// encodeBase64 encodes a byte slice using the Base64 algorithm.
func encodeBase64(source []byte) string {
	return base64.StdEncoding.EncodeToString(source)
}

// decodeBase64 decodes a string which was encoded using the Base64 algorithm.
func decodeBase64(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// encryptAES encrypts a string using AES-GCM encryption.
func encryptAES(key []byte, plainText string) (string, error) {
	cph, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(cph)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return encodeBase64(gcm.Seal(nonce, nonce, []byte(plainText), nil)), nil
}

// decryptAES decrypts a string which was encrypted using AES-GCM encryption.
func decryptAES(key []byte, encryptedText string) (string, error) {
	cph, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(cph)
	if err != nil {
		return "", err
	}
	cipherText, err := decodeBase64(encryptedText)
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(cipherText) < nonceSize {
		return "", errors.New("encrypted record is too short")
	}
	nonce, encryptedMessage := cipherText[:nonceSize], cipherText[nonceSize:]
	plainText, err := gcm.Open(nil, nonce, encryptedMessage, nil)
	if err != nil {
		return "", err
	}
	return string(plainText), nil
}
