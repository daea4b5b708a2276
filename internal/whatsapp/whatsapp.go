package whatsapp

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultCountryCode é o DDI usado quando o telefone vem sem código de país.
const DefaultCountryCode = "55"

// minDialableDigits: DDI + DDD + número. Abaixo disso o wa.me não roteia.
const minDialableDigits = 12

var nonDigits = regexp.MustCompile(`\D+`)

// NormalizePhone reduz o telefone à forma discável: só dígitos, sem zeros
// à esquerda, sempre com o DDI na frente. Entrada sem nenhum dígito vira "".
// Idempotente: normalizar duas vezes dá o mesmo resultado.
func NormalizePhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, DefaultCountryCode) {
		return digits
	}
	return DefaultCountryCode + digits
}

// IsPhoneValid diz se o telefone normalizado tem tamanho suficiente pra
// montar um link roteável. Quem monta o link deve checar isso antes.
func IsPhoneValid(raw string) bool {
	return len(NormalizePhone(raw)) >= minDialableDigits
}

// BuildLink monta o deep link wa.me com a mensagem no parâmetro text.
// Com companyName, prefixa a saudação "Olá, <empresa> ". Todo o texto
// composto (inclusive emoji) sai percent-encoded.
//
// Não valida o telefone: o chamador checa IsPhoneValid antes e bloqueia
// a navegação quando inválido.
func BuildLink(phone, message, companyName string) string {
	text := message
	if companyName != "" {
		text = fmt.Sprintf("Olá, %s %s", companyName, message)
	}

	// encodeURIComponent não usa "+" pra espaço
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")

	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), encoded)
}
