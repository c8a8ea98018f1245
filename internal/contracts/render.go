package contracts

import (
	"fmt"
	"strings"
)

const sar = "ريال سعودي"

// Render produces the ordered lines of a contract. It is a pure function:
// the same type and fields always give the same lines. Optional clauses are
// omitted entirely when their fields are unset, never rendered blank.
func Render(ct ContractType, f Fields) []string {
	lines := []string{
		fmt.Sprintf("بتاريخ %s، تم الاتفاق بين:", f.Date("date")),
		fmt.Sprintf("الطرف الأول: %s.", f.String("party1")),
		fmt.Sprintf("الطرف الثاني: %s.", f.String("party2")),
	}

	switch ct {
	case Employment:
		lines = append(lines, employment(f)...)
	case Lease:
		lines = append(lines, lease(f)...)
	case Agency:
		lines = append(lines, agency(f)...)
	case Sale:
		lines = append(lines, sale(f)...)
	case NDA:
		lines = append(lines, nda(f)...)
	}
	return lines
}

func employment(f Fields) []string {
	var out []string
	if f.Truthy("cr_number") {
		out = append(out, fmt.Sprintf("سجل تجاري رقم الطرف الأول: %s.", f.String("cr_number")))
	}
	if f.Truthy("address") {
		out = append(out, fmt.Sprintf("عنوان الطرف الأول: %s.", f.String("address")))
	}
	if f.Truthy("id_number") {
		out = append(out, fmt.Sprintf("رقم هوية/إقامة الطرف الثاني: %s.", f.String("id_number")))
	}

	var details []string
	if f.Truthy("job_title") {
		details = append(details, "بوظيفة: "+f.String("job_title"))
	}
	if f.Float("salary") > 0 {
		details = append(details, fmt.Sprintf("براتب شهري قدره: %.2f %s", f.Float("salary"), sar))
	}
	if f.Float("duration") > 0 {
		details = append(details, fmt.Sprintf("لمدة: %s شهرًا", f.String("duration")))
	}
	if f.Truthy("start_date") {
		details = append(details, "تبدأ في: "+f.Date("start_date"))
	}
	if len(details) > 0 {
		out = append(out, fmt.Sprintf("بموجب هذا العقد، يلتزم الطرف الثاني بالعمل لدى الطرف الأول: %s.", strings.Join(details, ", ")))
	}

	if f.Truthy("housing_allowance") && f.Truthy("housing_percentage") {
		out = append(out, fmt.Sprintf("يشمل العقد بدل سكن بنسبة %s%% من الراتب الأساسي.", f.String("housing_percentage")))
	}
	if f.Truthy("non_compete") && f.Truthy("non_compete_city") {
		out = append(out, fmt.Sprintf("يتعهد الطرف الثاني بعدم المنافسة أو العمل لدى جهة أخرى مماثلة في مدينة %s لمدة 6 أشهر بعد انتهاء العقد.", f.String("non_compete_city")))
	}
	if f.Truthy("penalty_clause") && f.Float("penalty_amount") > 0 {
		out = append(out, fmt.Sprintf("في حال الإخلال ببنود العقد، تفرض غرامة مالية قدرها %.2f %s على الطرف المخل.", f.Float("penalty_amount"), sar))
	}
	if f.Truthy("termination_clause") {
		out = append(out, "يمكن لأي من الطرفين فسخ العقد بإشعار كتابي مسبق مدته 30 يومًا.")
	}
	return append(out, "يخضع هذا العقد لأحكام نظام العمل السعودي ولوائحه التنفيذية.")
}

func lease(f Fields) []string {
	var out []string
	if f.Truthy("property_address") {
		out = append(out, fmt.Sprintf("العقار المؤجر: %s.", f.String("property_address")))
	}
	if f.Float("duration") > 0 {
		out = append(out, fmt.Sprintf("مدة الإيجار: %s شهرًا، تبدأ من تاريخ توقيع العقد.", f.String("duration")))
	}
	if f.Float("rent") > 0 {
		out = append(out, fmt.Sprintf("قيمة الإيجار الشهري: %.2f %s.", f.Float("rent"), sar))
	}
	if f.Float("deposit") > 0 {
		out = append(out, fmt.Sprintf("قيمة التأمين: %.2f %s.", f.Float("deposit"), sar))
	}
	party := "على المستأجر"
	if f.Truthy("maintenance") {
		party = "على المؤجر"
	}
	return append(out, fmt.Sprintf("مسؤولية الصيانة: %s.", party))
}

func agency(f Fields) []string {
	var out []string
	if f.Float("duration") > 0 {
		out = append(out, fmt.Sprintf("مدة الوكالة: %s شهرًا.", f.String("duration")))
	}
	if f.Truthy("agency_scope") {
		out = append(out, fmt.Sprintf("نطاق الوكالة: %s.", f.String("agency_scope")))
	}
	return out
}

func sale(f Fields) []string {
	var out []string
	if f.Truthy("item_description") {
		out = append(out, fmt.Sprintf("وصف الأصل المباع: %s.", f.String("item_description")))
	}
	if f.Float("price") > 0 {
		out = append(out, fmt.Sprintf("قيمة البيع الإجمالية: %.2f %s.", f.Float("price"), sar))
	}
	if f.Truthy("delivery_date") {
		out = append(out, fmt.Sprintf("تاريخ التسليم المتوقع: %s.", f.Date("delivery_date")))
	}
	return out
}

func nda(f Fields) []string {
	var out []string
	if f.Float("duration") > 0 {
		out = append(out, fmt.Sprintf("مدة الالتزام بالسرية: %s شهرًا.", f.String("duration")))
	}
	if f.Truthy("scope") {
		out = append(out, fmt.Sprintf("طبيعة المعلومات المشمولة بالسرية: %s.", f.String("scope")))
	}
	return out
}
