// Package hash 提供密码的单向哈希与校验。
package hash

import "golang.org/x/crypto/bcrypt"

// HashPassword 使用 bcrypt 对明文密码进行加盐哈希。
// 成本因子使用 bcrypt.DefaultCost，在普通硬件上校验耗时低于一秒，
// 同时足以抵御离线暴力破解。
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash 校验明文密码与存储的哈希是否匹配。
// 哈希格式非法（例如来自其他系统的残留数据）同样返回 false，
// 调用方无法区分“密码错误”与“哈希无法解析”。
func CheckPasswordHash(password, hashStr string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashStr), []byte(password))
	return err == nil
}
