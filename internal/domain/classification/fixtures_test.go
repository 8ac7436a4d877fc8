package classification

import "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"

func customerTypeRule() registry.SemanticRule {
	return registry.SemanticRule{
		ID:                "r-customer",
		Key:               "customer-type",
		ValidationPattern: `^customer-type:(retail|vip)$`,
		Suggestions:       []string{"customer-type:retail", "customer-type:vip"},
	}
}

func scheduleRule() registry.SemanticRule {
	return registry.SemanticRule{
		ID:                "r-schedule",
		Key:               "schedule",
		Category:          registry.CategoryRecon,
		ValidationPattern: `^schedule:(month|days|year):\d+$`,
		Suggestions:       []string{"schedule:month:1", "schedule:days:10", "schedule:year:1"},
	}
}

func testRules() []registry.SemanticRule {
	return []registry.SemanticRule{customerTypeRule(), scheduleRule()}
}
