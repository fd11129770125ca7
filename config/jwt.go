package config

// JwtKey - ключ подписи JWT токенов. Заполняется в Load() из JWT_SECRET.
var JwtKey []byte
