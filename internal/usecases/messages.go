package usecases

import (
	"fmt"
	"strings"

	"project_turnos/internal/entities"
)

// Reply templates for the booking dialog. All client-facing text is
// Spanish; commands are matched case-insensitively.

func msgWelcome(businessName string) string {
	return fmt.Sprintf("¡Hola! Soy el asistente de *%s*.\n\n"+
		"Puedo ayudarte con:\n"+
		"• *RESERVAR* - agendar un turno\n"+
		"• *CANCELAR* - cancelar un turno\n"+
		"• *MI TURNO* - ver tus turnos activos", businessName)
}

func msgServiceMenu(services []entities.Service) string {
	var b strings.Builder
	b.WriteString("¿Qué servicio querés reservar? Respondé con el número:\n\n")
	for i, s := range services {
		fmt.Fprintf(&b, "%d. %s ($%.0f, %d min)\n", i+1, s.Name, s.Price, s.Duration)
	}
	return b.String()
}

func msgInvalidServiceChoice(count int) string {
	return fmt.Sprintf("No entendí esa opción. Respondé con un número del 1 al %d.", count)
}

const msgAskDate = "¿Para cuándo? Escribí el día y la hora, por ejemplo:\n" +
	"*lunes 10:30*, *hoy 15:00* o *mañana 09:30*\n" +
	"(los turnos son en punto o y media)"

const msgAskName = "¡Perfecto! ¿A nombre de quién reservo el turno?"

const msgNameTooShort = "El nombre debe tener al menos 3 letras. ¿A nombre de quién reservo?"

func msgConfirmSummary(serviceName, date, timeOfDay, clientName string) string {
	return fmt.Sprintf("Confirmá tu turno:\n\n"+
		"• Servicio: *%s*\n"+
		"• Día: %s\n"+
		"• Hora: %s\n"+
		"• Nombre: %s\n\n"+
		"¿Está bien? Respondé *si* o *no*.", serviceName, date, timeOfDay, clientName)
}

const msgConfirmYesOrNo = "Respondé *si* para confirmar o *no* para cancelar."

func msgBooked(serviceName, date, timeOfDay string) string {
	return fmt.Sprintf("¡Listo! Tu turno de *%s* quedó reservado para el %s a las %s. ¡Te esperamos!",
		serviceName, date, timeOfDay)
}

const msgAborted = "Turno cancelado. Escribí *RESERVAR* cuando quieras empezar de nuevo."

func msgSlotTaken(slots []string) string {
	if len(slots) == 0 {
		return "Ese horario ya está ocupado y no quedan turnos libres ese día. Probá con otro día."
	}
	return fmt.Sprintf("Ese horario ya está ocupado. Horarios libres ese día: %s", strings.Join(slots, ", "))
}

const msgSlotLost = "Lo sentimos, ese horario se acaba de ocupar. Escribí *RESERVAR* para empezar de nuevo."

const msgDayClosed = "Ese día estamos cerrados. Probá con otro día."

func msgOutsideHours(open, close string) string {
	return fmt.Sprintf("Atendemos de %s a %s. Elegí un horario dentro de ese rango.", open, close)
}

const msgExpired = "Tu sesión expiró por inactividad. Escribí *RESERVAR* para empezar de nuevo."

const msgLimitReached = "Ya tenés el máximo de turnos activos. Cancelá uno con *CANCELAR* antes de reservar otro."

const msgNoServices = "Por el momento no hay servicios disponibles para reservar."

const msgNoAppointments = "No tenés turnos activos."

func msgAppointmentList(appointments []entities.AppointmentDetail) string {
	var b strings.Builder
	b.WriteString("Tus turnos activos:\n\n")
	for i, a := range appointments {
		fmt.Fprintf(&b, "%d. %s - %s %s ($%.0f) [%s]\n",
			i+1, a.ServiceName, a.Date, a.Time, a.Price, a.Status)
	}
	return b.String()
}

func msgCancelList(appointments []entities.AppointmentDetail) string {
	return msgAppointmentList(appointments) +
		"\nPara cancelar, respondé *CANCELAR* seguido del número, por ejemplo: CANCELAR 1"
}

func msgInvalidCancelChoice(count int) string {
	return fmt.Sprintf("Número inválido. Respondé CANCELAR seguido de un número del 1 al %d.", count)
}

func msgCancelled(serviceName, date, timeOfDay string) string {
	return fmt.Sprintf("Tu turno de *%s* del %s a las %s fue cancelado.", serviceName, date, timeOfDay)
}

const msgGenericError = "Disculpá, tuvimos un problema. Intentá de nuevo en unos minutos."
