package calculations

import "errors"

var (
	// ErrInvalidFrequency неизвестный код частоты платежей; расчет не выполняется
	ErrInvalidFrequency = errors.New("неизвестная частота платежей")

	// ErrInvalidParams параметры расчета вне допустимых значений
	ErrInvalidParams = errors.New("недопустимые параметры расчета")

	// ErrPrepaymentDateNotFound дата досрочного платежа не совпала ни с одной строкой графика.
	// Платеж пропускается, ошибка попадает в Warnings.
	ErrPrepaymentDateNotFound = errors.New("дата досрочного платежа вне графика")

	// ErrNoScenarioOverlap у графика и сохраненных сценариев нет общих дат
	ErrNoScenarioOverlap = errors.New("нет пересечения дат со сценариями")

	// ErrNotFullyAmortized кредит не погашен в пределах горизонта расчета
	ErrNotFullyAmortized = errors.New("кредит не погашен в пределах горизонта")

	// ErrInvalidScenarioName пустое имя сценария
	ErrInvalidScenarioName = errors.New("имя сценария не может быть пустым")
)
