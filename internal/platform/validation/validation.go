package validation

import (
	"errors"
	"reflect"
	"strings"

	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/platform/units"

	"github.com/go-playground/validator/v10"
)

// 自定义 tag：
// - evm_addr：合法 EVM 地址（混合大小写时校验 EIP-55）
// - positive_amount：可解析为 > 0 的十进制数（不经过 float）
const (
	TagAddress        = "evm_addr"
	TagPositiveAmount = "positive_amount"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误里的字段名使用 json 名（与 HTTP 接口字段一致）。
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation(TagAddress, func(fl validator.FieldLevel) bool {
		return model.IsAddress(fl.Field().String())
	})
	_ = v.RegisterValidation(TagPositiveAmount, func(fl validator.FieldLevel) bool {
		_, err := units.ParseAmount(fl.Field().String())
		return err == nil
	})
	return v
}

// RegisterStruct 注册结构体级校验（例如依赖其它字段的条件校验）。
// 只应在包初始化阶段调用。
func RegisterStruct(fn validator.StructLevelFunc, types ...any) {
	validate.RegisterStructValidation(fn, types...)
}

// Rule 把某个字段的某个 tag 失败映射为对外提示文案。
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// Check 校验 s，并按 rules 的顺序返回第一条命中的 invalid_input 错误。
// rules 的顺序就是错误的优先级；未被 rules 覆盖的失败使用 validator 的默认描述。
func Check(s any, rules []Rule) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewError(model.KindInvalidInput, "invalid request", err)
	}
	for _, r := range rules {
		for _, fe := range verrs {
			if fe.Field() == r.Field && fe.Tag() == r.Tag {
				return model.InvalidInput(r.Field, r.Message)
			}
		}
	}
	fe := verrs[0]
	return model.InvalidInput(fe.Field(), fe.Error())
}
