package reports

import (
	"sort"
	"time"

	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ServicoStat struct {
	Tipo       string  `json:"tipo"`
	Quantidade int     `json:"quantidade"`
	ValorMedio float64 `json:"valor_medio"`
}

type ClienteStat struct {
	Nome     string  `json:"nome"`
	Chamados int     `json:"chamados"`
	Valor    float64 `json:"valor"`
}

type FuncionarioStat struct {
	Nome         string  `json:"nome"`
	Atendimentos int     `json:"atendimentos"`
	Valor        float64 `json:"valor"`
}

type MesStat struct {
	Mes   string  `json:"mes"`
	Valor float64 `json:"valor"`
}

type StatusClientes struct {
	Ativo   int64 `json:"ativo"`
	Regular int64 `json:"regular"`
	Atencao int64 `json:"atencao"`
}

type StatsResponse struct {
	TotalArrecadado        float64           `json:"total_arrecadado"`
	TotalMesAtual          float64           `json:"total_mes_atual"`
	TotalAtendimentos      int64             `json:"total_atendimentos"`
	TotalClientes          int64             `json:"total_clientes"`
	TotalFuncionarios      int64             `json:"total_funcionarios"`
	DadosServicos          []ServicoStat     `json:"dados_servicos"`
	TopClientes            []ClienteStat     `json:"top_clientes"`
	FuncionariosDesempenho []FuncionarioStat `json:"funcionarios_desempenho"`
	StatusClientes         StatusClientes    `json:"status_clientes"`
	EvolucaoMensal         []MesStat         `json:"evolucao_mensal"`
}

var mesesAbrev = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func valorOf(a models.Appointment) float64 {
	if a.Valor == nil {
		return 0
	}
	return *a.Valor
}

// GET /api/reports/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var appointments []models.Appointment
		if err := database.DB.Find(&appointments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}

		var resp StatsResponse
		resp.TotalAtendimentos = int64(len(appointments))

		if err := database.DB.Model(&models.Client{}).Count(&resp.TotalClientes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}
		if err := database.DB.Model(&models.Employee{}).Count(&resp.TotalFuncionarios).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}

		database.DB.Model(&models.Client{}).Where("etiqueta = ?", models.EtiquetaGreen).Count(&resp.StatusClientes.Ativo)
		database.DB.Model(&models.Client{}).Where("etiqueta = ?", models.EtiquetaBlue).Count(&resp.StatusClientes.Regular)
		database.DB.Model(&models.Client{}).Where("etiqueta = ?", models.EtiquetaRed).Count(&resp.StatusClientes.Atencao)

		type agg struct {
			count int
			valor float64
		}
		porTipo := make(map[string]*agg)
		porCliente := make(map[string]*agg)
		porFuncionario := make(map[string]*agg)

		now := time.Now()
		mesAtual := now.Format("2006-01")

		for _, apt := range appointments {
			valor := valorOf(apt)
			resp.TotalArrecadado += valor
			if len(apt.Data) >= 7 && apt.Data[:7] == mesAtual {
				resp.TotalMesAtual += valor
			}

			tipo := apt.Tipo
			if tipo == "" {
				tipo = "Outros"
			}
			if porTipo[tipo] == nil {
				porTipo[tipo] = &agg{}
			}
			porTipo[tipo].count++
			porTipo[tipo].valor += valor

			cliente := "Sem cliente"
			if apt.ClienteNome != nil && *apt.ClienteNome != "" {
				cliente = *apt.ClienteNome
			}
			if porCliente[cliente] == nil {
				porCliente[cliente] = &agg{}
			}
			porCliente[cliente].count++
			porCliente[cliente].valor += valor

			funcionario := "Sem funcionário"
			if apt.FuncionarioNome != nil && *apt.FuncionarioNome != "" {
				funcionario = *apt.FuncionarioNome
			}
			if porFuncionario[funcionario] == nil {
				porFuncionario[funcionario] = &agg{}
			}
			porFuncionario[funcionario].count++
			porFuncionario[funcionario].valor += valor
		}

		resp.DadosServicos = make([]ServicoStat, 0, len(porTipo))
		for tipo, a := range porTipo {
			valorMedio := 0.0
			if a.count > 0 {
				valorMedio = a.valor / float64(a.count)
			}
			resp.DadosServicos = append(resp.DadosServicos, ServicoStat{
				Tipo:       tipo,
				Quantidade: a.count,
				ValorMedio: valorMedio,
			})
		}
		sort.Slice(resp.DadosServicos, func(i, j int) bool {
			return resp.DadosServicos[i].Quantidade > resp.DadosServicos[j].Quantidade
		})

		topClientes := make([]ClienteStat, 0, len(porCliente))
		for nome, a := range porCliente {
			topClientes = append(topClientes, ClienteStat{Nome: nome, Chamados: a.count, Valor: a.valor})
		}
		sort.Slice(topClientes, func(i, j int) bool { return topClientes[i].Chamados > topClientes[j].Chamados })
		if len(topClientes) > 5 {
			topClientes = topClientes[:5]
		}
		resp.TopClientes = topClientes

		desempenho := make([]FuncionarioStat, 0, len(porFuncionario))
		for nome, a := range porFuncionario {
			desempenho = append(desempenho, FuncionarioStat{Nome: nome, Atendimentos: a.count, Valor: a.valor})
		}
		sort.Slice(desempenho, func(i, j int) bool { return desempenho[i].Atendimentos > desempenho[j].Atendimentos })
		if len(desempenho) > 5 {
			desempenho = desempenho[:5]
		}
		resp.FuncionariosDesempenho = desempenho

		// Evolução de faturamento dos últimos 6 meses (mês atual incluso)
		resp.EvolucaoMensal = make([]MesStat, 0, 6)
		for i := 5; i >= 0; i-- {
			ref := now.AddDate(0, -i, 0)
			prefixo := ref.Format("2006-01")
			total := 0.0
			for _, apt := range appointments {
				if len(apt.Data) >= 7 && apt.Data[:7] == prefixo {
					total += valorOf(apt)
				}
			}
			resp.EvolucaoMensal = append(resp.EvolucaoMensal, MesStat{
				Mes:   mesesAbrev[int(ref.Month())-1],
				Valor: total,
			})
		}

		return c.JSON(resp)
	}
}
