package calculations

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
)

// SaveScenario сохраняет ряд остатков долга из графика под именем name.
//
// Новый ряд объединяется с уже сохраненными по датам (inner join), поэтому все
// сценарии набора имеют общий индекс дат. Если пересечения нет, набор становится
// пустым. Сценарий с тем же именем заменяется новым. existing не изменяется.
func SaveScenario(schedule *Schedule, name string, existing ScenarioSet) (ScenarioSet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ScenarioSet{}, ErrInvalidScenarioName
	}
	if schedule == nil {
		return ScenarioSet{}, fmt.Errorf("%w: нет графика для сохранения", ErrInvalidParams)
	}

	series := make([]ScenarioPoint, 0, len(schedule.Rows))
	for _, row := range schedule.Rows {
		series = append(series, ScenarioPoint{Date: row.Date, EndBalance: row.EndBalance})
	}
	added := Scenario{Name: name, Series: series}

	if len(existing.Scenarios) == 0 {
		return ScenarioSet{Scenarios: []Scenario{added}}, nil
	}

	shared := existing.Dates()
	common := make(DateSet)
	for _, point := range series {
		if shared.Contains(point.Date) {
			common[utils.Day(point.Date)] = struct{}{}
		}
	}
	if len(common) == 0 {
		return ScenarioSet{}, nil
	}

	scenarios := make([]Scenario, 0, len(existing.Scenarios)+1)
	replaced := false
	for _, sc := range existing.Scenarios {
		if sc.Name == name {
			scenarios = append(scenarios, added.restrict(common))
			replaced = true
			continue
		}
		scenarios = append(scenarios, sc.restrict(common))
	}
	if !replaced {
		scenarios = append(scenarios, added.restrict(common))
	}

	return ScenarioSet{Scenarios: scenarios}, nil
}

// Reset возвращает пустой набор сценариев
func (s ScenarioSet) Reset() ScenarioSet {
	return ScenarioSet{}
}

// Len количество сценариев
func (s ScenarioSet) Len() int {
	return len(s.Scenarios)
}

// Names имена сценариев в порядке сохранения
func (s ScenarioSet) Names() []string {
	names := make([]string, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		names = append(names, sc.Name)
	}
	return names
}

// Lookup ищет сценарий по имени
func (s ScenarioSet) Lookup(name string) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

// Dates общие даты всех сценариев набора
func (s ScenarioSet) Dates() DateSet {
	if len(s.Scenarios) == 0 {
		return DateSet{}
	}
	common := s.Scenarios[0].dateSet()
	for _, sc := range s.Scenarios[1:] {
		own := sc.dateSet()
		for d := range common {
			if !own.Contains(d) {
				delete(common, d)
			}
		}
	}
	return common
}

func (sc Scenario) dateSet() DateSet {
	set := make(DateSet, len(sc.Series))
	for _, point := range sc.Series {
		set[utils.Day(point.Date)] = struct{}{}
	}
	return set
}

// values ряд сценария как словарь дата -> остаток
func (sc Scenario) values() map[time.Time]decimal.Decimal {
	m := make(map[time.Time]decimal.Decimal, len(sc.Series))
	for _, point := range sc.Series {
		m[utils.Day(point.Date)] = point.EndBalance
	}
	return m
}

// restrict возвращает копию сценария только с датами из keep
func (sc Scenario) restrict(keep DateSet) Scenario {
	series := make([]ScenarioPoint, 0, len(keep))
	for _, point := range sc.Series {
		if keep.Contains(point.Date) {
			series = append(series, point)
		}
	}
	return Scenario{Name: sc.Name, Series: series}
}

// joinScenarios оставляет строки, даты которых есть во всех сценариях,
// и добавляет к ним значения сценариев
func joinScenarios(rows []ScheduleRow, set ScenarioSet) []ScheduleRow {
	lookups := make([]map[time.Time]decimal.Decimal, len(set.Scenarios))
	for i, sc := range set.Scenarios {
		lookups[i] = sc.values()
	}

	joined := make([]ScheduleRow, 0, len(rows))
rowLoop:
	for _, row := range rows {
		values := make(map[string]decimal.Decimal, len(set.Scenarios))
		for i, sc := range set.Scenarios {
			v, ok := lookups[i][row.Date]
			if !ok {
				continue rowLoop
			}
			values[sc.Name] = v
		}
		row.ScenarioValues = values
		joined = append(joined, row)
	}
	return joined
}
