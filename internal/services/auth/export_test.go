package auth

// SetCompareHash подменяет проверку пароля в тестах.
func (s *Service) SetCompareHash(fn func(hash, raw string) error) {
	s.compareHash = fn
}
