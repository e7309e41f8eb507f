package schedule

import (
	"fmt"
	"log"
	"time"

	"agenda-backend/internal/database"
	"agenda-backend/internal/models"
)

const (
	horaInicioPadrao = "00:00"
	horaFimPadrao    = "23:59"
)

type ConflictResult struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`
}

// combine monta o instante a partir das colunas de data ("2006-01-02") e
// hora ("15:04").
func combine(data, hora string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", data+" "+hora)
}

// CheckConflict verifica se o horário candidato cai dentro de algum bloqueio.
// Bloqueio geral vale para todo mundo e encerra a varredura; bloqueio de
// funcionário só vale se o nome resolvido do funcionário bater exatamente com
// o nome informado no agendamento.
//
// Os limites do intervalo são inclusivos nas duas pontas: um candidato
// exatamente em data_fim/hora_fim ainda está bloqueado.
//
// Quando mais de um bloqueio cobre o candidato, vence o primeiro na ordem de
// id crescente (o mais antigo); a varredura é um teste existencial, só a
// mensagem depende da ordem.
//
// Falhas de consulta NÃO bloqueiam: é melhor deixar agendar durante uma
// indisponibilidade transitória do banco do que travar a criação de
// agendamentos inteira. (O oposto das decisões de autorização, que falham
// fechado; a assimetria é proposital.)
func CheckConflict(data, hora, funcionarioNome string) ConflictResult {
	var blocks []models.ScheduleBlock
	if err := database.DB.Order("id ASC").Find(&blocks).Error; err != nil {
		log.Println("[WARN] Erro ao buscar bloqueios, liberando horário:", err)
		return ConflictResult{}
	}

	if len(blocks) == 0 {
		return ConflictResult{}
	}

	candidato, err := combine(data, hora)
	if err != nil {
		log.Println("[WARN] Data/hora de agendamento inválida:", err)
		return ConflictResult{}
	}

	for _, block := range blocks {
		horaInicio := horaInicioPadrao
		if block.HoraInicio != nil && *block.HoraInicio != "" {
			horaInicio = *block.HoraInicio
		}
		horaFim := horaFimPadrao
		if block.HoraFim != nil && *block.HoraFim != "" {
			horaFim = *block.HoraFim
		}

		inicio, err := combine(block.DataInicio, horaInicio)
		if err != nil {
			continue
		}
		fim, err := combine(block.DataFim, horaFim)
		if err != nil {
			continue
		}

		// Fora do intervalo [inicio, fim]
		if candidato.Before(inicio) || candidato.After(fim) {
			continue
		}

		if block.Tipo == models.BloqueioGeral {
			return ConflictResult{
				Blocked: true,
				Reason:  fmt.Sprintf("Horário indisponível devido a bloqueio: %s", block.Descricao),
			}
		}

		if block.Tipo == models.BloqueioFuncionario && funcionarioNome != "" && block.FuncionarioID != nil {
			var funcionario models.Employee
			if err := database.DB.First(&funcionario, "id = ?", *block.FuncionarioID).Error; err != nil {
				// Funcionário não resolvido: este bloqueio não se aplica
				continue
			}
			if funcionario.Nome == funcionarioNome {
				return ConflictResult{
					Blocked: true,
					Reason:  fmt.Sprintf("Horário indisponível: %s está em %s", funcionarioNome, block.Descricao),
				}
			}
		}
	}

	return ConflictResult{}
}
