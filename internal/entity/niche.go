package entity

// Niche é o ramo de atuação do estabelecimento. Conjunto fixo de 9 valores,
// também usado como chave do mapa de mensagens padrão.
type Niche string

const (
	NicheMarmita      Niche = "Marmita"
	NicheAcaiSorvete  Niche = "Acai e Sorvete"
	NichePizzaria     Niche = "Pizzaria"
	NicheHamburgueria Niche = "Hamburgueria"
	NichePastelaria   Niche = "Pastelaria"
	NicheJapa         Niche = "Japa"
	NicheBolosDoces   Niche = "Bolos e Doces"
	NicheSalgadinhos  Niche = "Salgadinhos"
	NicheOutros       Niche = "Outros"
)

var Niches = []Niche{
	NicheMarmita,
	NicheAcaiSorvete,
	NichePizzaria,
	NicheHamburgueria,
	NichePastelaria,
	NicheJapa,
	NicheBolosDoces,
	NicheSalgadinhos,
	NicheOutros,
}

func IsValidNiche(n Niche) bool {
	for _, niche := range Niches {
		if niche == n {
			return true
		}
	}
	return false
}
